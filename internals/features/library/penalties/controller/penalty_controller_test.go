package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	"simpus_backend/internals/features/access"
	bookModel "simpus_backend/internals/features/library/books/model"
	penaltyCtl "simpus_backend/internals/features/library/penalties/controller"
	"simpus_backend/internals/features/library/penalties/dto"
	"simpus_backend/internals/features/library/penalties/model"
	penaltyRoute "simpus_backend/internals/features/library/penalties/route"
	"simpus_backend/internals/features/library/penalties/service"
	txModel "simpus_backend/internals/features/library/transactions/model"
	userModel "simpus_backend/internals/features/users/user/model"
	helper "simpus_backend/internals/helpers"
)

const serverKey = "sk-test"

type fakeGateway struct {
	calls []string
}

func (g *fakeGateway) ServerKey() string { return serverKey }

func (g *fakeGateway) CreatePayment(orderID string, amount int64, itemName string, cust service.Customer) (service.SnapResult, error) {
	g.calls = append(g.calls, orderID)
	return service.SnapResult{Token: "tok-" + orderID, RedirectURL: "https://app.sandbox.midtrans.com/snap/" + orderID}, nil
}

type env struct {
	app     *fiber.App
	db      *gorm.DB
	gw      *fakeGateway
	member  userModel.UserModel
	staff   userModel.UserModel
	penalty model.PenaltyModel
}

func fakeAuth(c *fiber.Ctx) error {
	if id := c.Get("X-User"); id != "" {
		c.Locals(helper.LocUserID, id)
	}
	c.Locals(helper.LocUserRole, c.Get("X-Role"))
	return c.Next()
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t,
		&userModel.UserModel{}, &userModel.UserDetailModel{},
		&bookModel.BookModel{}, &txModel.TransactionModel{}, &model.PenaltyModel{}, &model.PenaltyPaymentModel{},
	)
	e := &env{db: db, gw: &fakeGateway{}}

	e.member = userModel.UserModel{UserName: "ani", FullName: "Ani Lestari", Email: "ani@sekolah.id", Password: "x", Role: constants.RoleSiswa}
	e.staff = userModel.UserModel{UserName: "petugas", FullName: "Pak Joko", Email: "joko@sekolah.id", Password: "x", Role: constants.RolePetugas}
	require.NoError(t, db.Create(&e.member).Error)
	require.NoError(t, db.Create(&e.staff).Error)

	book := bookModel.BookModel{BookTitle: "Ayat-Ayat Cinta", BookISBN: "9789793604022", BookAuthor: "Habiburrahman El Shirazy", BookPublisher: "Republika", BookYearPublished: 2004, BookCopyCount: 1}
	require.NoError(t, db.Create(&book).Error)

	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := txModel.TransactionModel{
		TransactionCode: "TRX-20240101-AAAA", TransactionBookID: book.BookID, TransactionUserID: e.member.ID,
		TransactionStatusID: uuid.New(), TransactionBorrowDate: &d, TransactionDueDate: &d, TransactionReturnDate: &d,
		TransactionPenaltyTotal: 5000,
	}
	require.NoError(t, db.Create(&loan).Error)

	e.penalty = model.PenaltyModel{
		PenaltyTransactionID: loan.TransactionID, PenaltyUserID: e.member.ID,
		PenaltyAmount: 5000, PenaltyReason: constants.StatusOverdue, PenaltyStatus: constants.PenaltyUnpaid,
	}
	require.NoError(t, db.Create(&e.penalty).Error)

	svc := service.NewPenaltyService(db, e.gw, nil)
	svc.Now = func() time.Time { return time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC) }
	ctl := penaltyCtl.NewPenaltyController(svc, nil)
	checker := access.NewRoleTable()

	app := fiber.New()
	penaltyRoute.PaymentWebhookRoutes(app, ctl)
	penaltyRoute.PenaltyUserRoutes(app.Group("/api/u", fakeAuth), ctl, checker)
	penaltyRoute.PenaltyAdminRoutes(app.Group("/api/a", fakeAuth), ctl, checker)
	e.app = app
	return e
}

func (e *env) send(t *testing.T, method, path string, who *userModel.UserModel, body any) (int, json.RawMessage) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set("X-User", who.ID.String())
		req.Header.Set("X-Role", who.Role)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var envl struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &envl) == nil && envl.Data != nil {
		return resp.StatusCode, envl.Data
	}
	return resp.StatusCode, raw
}

func (e *env) reload(t *testing.T) model.PenaltyModel {
	t.Helper()
	var p model.PenaltyModel
	require.NoError(t, e.db.First(&p, "penalty_id = ?", e.penalty.PenaltyID).Error)
	return p
}

func notification(orderID, status, gross string) service.Notification {
	n := service.Notification{OrderID: orderID, StatusCode: "200", GrossAmount: gross, TransactionStatus: status}
	n.SignatureKey = service.Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return n
}

func TestListMineAndAll(t *testing.T) {
	e := newEnv(t)

	code, data := e.send(t, fiber.MethodGet, "/api/u/penalties", &e.member, nil)
	require.Equal(t, fiber.StatusOK, code)
	var list []dto.PenaltyResponse
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "TRX-20240101-AAAA", list[0].TransactionCode)
	assert.Equal(t, "Ayat-Ayat Cinta", list[0].BookTitle)
	assert.EqualValues(t, 5000, list[0].Amount)

	code, data = e.send(t, fiber.MethodGet, "/api/a/penalties?status=paid", &e.staff, nil)
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Empty(t, list)

	code, _ = e.send(t, fiber.MethodGet, "/api/a/penalties?status=lunas", &e.staff, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = e.send(t, fiber.MethodGet, "/api/a/penalties", &e.member, nil)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestSettleCash(t *testing.T) {
	e := newEnv(t)
	path := "/api/a/penalties/" + e.penalty.PenaltyID.String() + "/settle"

	code, _ := e.send(t, fiber.MethodPost, path, &e.staff, nil)
	require.Equal(t, fiber.StatusOK, code)

	p := e.reload(t)
	assert.Equal(t, constants.PenaltyPaid, p.PenaltyStatus)
	require.NotNil(t, p.PenaltyMethod)
	assert.Equal(t, constants.PenaltyMethodCash, *p.PenaltyMethod)
	require.NotNil(t, p.PenaltySettledBy)
	assert.Equal(t, e.staff.ID, *p.PenaltySettledBy)

	code, _ = e.send(t, fiber.MethodPost, path, &e.staff, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = e.send(t, fiber.MethodPost, "/api/a/penalties/"+uuid.NewString()+"/settle", &e.staff, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestPayOnlineAndWebhook(t *testing.T) {
	e := newEnv(t)
	payPath := "/api/u/penalties/" + e.penalty.PenaltyID.String() + "/pay"

	other := userModel.UserModel{UserName: "rudi", Email: "rudi@sekolah.id", Password: "x", Role: constants.RoleSiswa}
	require.NoError(t, e.db.Create(&other).Error)
	code, _ := e.send(t, fiber.MethodPost, payPath, &other, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, data := e.send(t, fiber.MethodPost, payPath, &e.member, nil)
	require.Equal(t, fiber.StatusCreated, code)
	var sess service.PaymentSession
	require.NoError(t, json.Unmarshal(data, &sess))
	assert.EqualValues(t, 5000, sess.Amount)
	assert.Equal(t, "tok-"+sess.OrderID, sess.Token)
	require.Len(t, e.gw.calls, 1)

	// pending: diterima tapi belum lunas
	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, notification(sess.OrderID, "pending", "5000.00"))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, constants.PenaltyUnpaid, e.reload(t).PenaltyStatus)

	forged := notification(sess.OrderID, "settlement", "5000.00")
	forged.SignatureKey = "palsu"
	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, forged)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, constants.PenaltyUnpaid, e.reload(t).PenaltyStatus)

	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, notification(sess.OrderID, "settlement", "1000.00"))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, constants.PenaltyUnpaid, e.reload(t).PenaltyStatus)

	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, notification(sess.OrderID, "settlement", "5000.00"))
	require.Equal(t, fiber.StatusOK, code)
	p := e.reload(t)
	assert.Equal(t, constants.PenaltyPaid, p.PenaltyStatus)
	require.NotNil(t, p.PenaltyMethod)
	assert.Equal(t, constants.PenaltyMethodMidtrans, *p.PenaltyMethod)

	// notifikasi ulang tetap 200 dan tidak mengubah apa pun
	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, notification(sess.OrderID, "settlement", "5000.00"))
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = e.send(t, fiber.MethodPost, payPath, &e.member, nil)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestWebhookForEarlierSessionStillSettles(t *testing.T) {
	e := newEnv(t)
	payPath := "/api/u/penalties/" + e.penalty.PenaltyID.String() + "/pay"

	var first, second service.PaymentSession
	code, data := e.send(t, fiber.MethodPost, payPath, &e.member, nil)
	require.Equal(t, fiber.StatusCreated, code)
	require.NoError(t, json.Unmarshal(data, &first))
	code, data = e.send(t, fiber.MethodPost, payPath, &e.member, nil)
	require.Equal(t, fiber.StatusCreated, code)
	require.NoError(t, json.Unmarshal(data, &second))
	require.NotEqual(t, first.OrderID, second.OrderID)

	// anggota membayar lewat sesi Snap pertama
	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, notification(first.OrderID, "settlement", "5000.00"))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, constants.PenaltyPaid, e.reload(t).PenaltyStatus)

	// sesi kedua ikut dibayar: denda tetap lunas sekali, percobaan dicatat ganda
	code, _ = e.send(t, fiber.MethodPost, "/api/payments/midtrans/notification", nil, notification(second.OrderID, "settlement", "5000.00"))
	require.Equal(t, fiber.StatusOK, code)

	var attempts []model.PenaltyPaymentModel
	require.NoError(t, e.db.Order("payment_created_at").Find(&attempts, "payment_penalty_id = ?", e.penalty.PenaltyID).Error)
	require.Len(t, attempts, 2)
	status := map[string]string{}
	for _, a := range attempts {
		status[a.PaymentOrderID] = a.PaymentStatus
	}
	assert.Equal(t, model.PaymentSettled, status[first.OrderID])
	assert.Equal(t, model.PaymentDuplicate, status[second.OrderID])
}
