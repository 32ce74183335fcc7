package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"simpus_backend/internals/configs"
	"simpus_backend/internals/features/access"
	bookCtl "simpus_backend/internals/features/library/books/controller"
	bookRoute "simpus_backend/internals/features/library/books/route"
	catCtl "simpus_backend/internals/features/library/categories/controller"
	catRoute "simpus_backend/internals/features/library/categories/route"
	penaltyCtl "simpus_backend/internals/features/library/penalties/controller"
	penaltyRoute "simpus_backend/internals/features/library/penalties/route"
	penaltyService "simpus_backend/internals/features/library/penalties/service"
	settingCtl "simpus_backend/internals/features/library/settings/controller"
	settingRoute "simpus_backend/internals/features/library/settings/route"
	statusCtl "simpus_backend/internals/features/library/statuses/controller"
	statusRoute "simpus_backend/internals/features/library/statuses/route"
	txCtl "simpus_backend/internals/features/library/transactions/controller"
	txRoute "simpus_backend/internals/features/library/transactions/route"
	loanService "simpus_backend/internals/features/library/transactions/service"
	authCtl "simpus_backend/internals/features/users/auth/controller"
	authRoute "simpus_backend/internals/features/users/auth/route"
	authService "simpus_backend/internals/features/users/auth/service"
	memberCtl "simpus_backend/internals/features/users/user/controller"
	memberRoute "simpus_backend/internals/features/users/user/route"
	"simpus_backend/internals/helpers/dbtime"
	authMiddleware "simpus_backend/internals/middlewares/auth"
)

var startTime time.Time

// Deps: service yang dibangun di main (serve) dan dibagi ke semua route.
type Deps struct {
	DB        *gorm.DB
	Log       *zap.Logger
	Policy    configs.LibraryPolicy
	Checker   access.Checker
	Auth      *authService.AuthService
	Loans     *loanService.LoanService
	Penalties *penaltyService.PenaltyService
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	BaseRoutes(app, d.DB)
	app.Use("/api", dbtime.WithLibraryLocation(d.Policy.Location()))

	// auth & webhook didaftarkan sebelum group /api/a supaya tidak melewati middleware JWT
	log.Info("[ROUTES] auth")
	authMw := authMiddleware.AuthMiddleware(d.DB, log)
	authRoute.AuthRoutes(app, authCtl.NewAuthController(d.Auth, log), authMw)

	penalties := penaltyCtl.NewPenaltyController(d.Penalties, log)
	penaltyRoute.PaymentWebhookRoutes(app, penalties)

	books := bookCtl.NewBookController(d.DB, log)
	categories := catCtl.NewCategoryController(d.DB, log)
	statuses := statusCtl.NewStatusController(d.DB, log)
	settings := settingCtl.NewSettingController(d.DB, d.Policy, log)
	members := memberCtl.NewMemberController(d.DB, log)
	loans := txCtl.NewTransactionController(d.DB, d.Loans, d.Policy.Location(), log)

	log.Info("[ROUTES] public")
	public := app.Group("/api/public")
	bookRoute.BookPublicRoutes(public, books)
	catRoute.CategoryPublicRoutes(public, categories)
	statusRoute.StatusPublicRoutes(public, statuses)

	log.Info("[ROUTES] user")
	user := app.Group("/api/u", authMw)
	txRoute.TransactionUserRoutes(user, loans, d.Checker)
	penaltyRoute.PenaltyUserRoutes(user, penalties, d.Checker)

	log.Info("[ROUTES] admin")
	admin := app.Group("/api/a", authMw)
	bookRoute.BookAdminRoutes(admin, books, d.Checker)
	catRoute.CategoryAdminRoutes(admin, categories, d.Checker)
	statusRoute.StatusAdminRoutes(admin, statuses, d.Checker)
	settingRoute.SettingAdminRoutes(admin, settings, d.Checker)
	txRoute.TransactionAdminRoutes(admin, loans, d.Checker)
	penaltyRoute.PenaltyAdminRoutes(admin, penalties, d.Checker)
	memberRoute.MemberAdminRoutes(admin, members, d.Checker)
}
