package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	helper "simpus_backend/internals/helpers"
)

// LoggerMiddleware mencatat access log dengan jam perpustakaan dan pelaku request (role:user_id).
func LoggerMiddleware(timezone string) fiber.Handler {
	return newAccessLog(timezone, os.Stdout)
}

func newAccessLog(timezone string, out io.Writer) fiber.Handler {
	if timezone == "" {
		timezone = "Asia/Jakarta"
	}
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   timezone,
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency} - ${locals:reqid} - actor=${actor}\n",
		Output:     out,
		CustomTags: map[string]logger.LogFunc{
			"actor": func(output logger.Buffer, c *fiber.Ctx, _ *logger.Data, _ string) (int, error) {
				return output.WriteString(actorOf(c))
			},
		},
	})
}

// actorOf dibaca setelah handler jalan, jadi locals dari AuthMiddleware sudah terisi.
func actorOf(c *fiber.Ctx) string {
	uid := c.Locals(helper.LocUserID)
	if uid == nil || fmt.Sprint(uid) == "" {
		return "-"
	}
	role, _ := c.Locals(helper.LocUserRole).(string)
	if role == "" {
		role = "?"
	}
	return fmt.Sprintf("%s:%v", role, uid)
}
