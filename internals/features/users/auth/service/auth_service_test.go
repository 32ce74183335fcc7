package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"simpus_backend/internals/configs"
	"simpus_backend/internals/constants"
	"simpus_backend/internals/databases/dbtest"
	authModel "simpus_backend/internals/features/users/auth/model"
	authRepo "simpus_backend/internals/features/users/auth/repository"
	userModel "simpus_backend/internals/features/users/user/model"
)

type fakeGoogle struct {
	id  GoogleIdentity
	err error
}

func (f fakeGoogle) Verify(string) (GoogleIdentity, error) { return f.id, f.err }

func newTestService(t *testing.T, g GoogleVerifier) *AuthService {
	t.Helper()
	configs.JWTSecret = "rahasia-test"
	t.Cleanup(func() { configs.JWTSecret = "" })

	db := dbtest.Open(t, &userModel.UserModel{}, &userModel.UserDetailModel{}, &authModel.TokenBlacklistModel{})
	svc := NewAuthService(db, g, zap.NewNop())
	svc.Now = func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func register(t *testing.T, svc *AuthService) *userModel.UserModel {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		UserName: "siti",
		FullName: "Siti Aminah",
		Email:    "Siti@Sekolah.sch.id ",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterCreatesMemberWithActiveDetail(t *testing.T) {
	svc := newTestService(t, nil)
	u := register(t, svc)

	assert.Equal(t, constants.RoleSiswa, u.Role)
	assert.Equal(t, "siti@sekolah.sch.id", u.Email)
	assert.NotEqual(t, "rahasia123", u.Password)

	var d userModel.UserDetailModel
	require.NoError(t, svc.DB.First(&d, "user_detail_user_id = ?", u.ID).Error)
	assert.Equal(t, constants.MembershipActive, d.UserDetailMembershipStatus)
	require.NotNil(t, d.UserDetailJoinDate)
	assert.Equal(t, "2024-01-01", d.UserDetailJoinDate.Format("2006-01-02"))
}

func TestRegisterRejectsDuplicatesAndWeakPassword(t *testing.T) {
	svc := newTestService(t, nil)
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		UserName: "siti2", FullName: "X", Email: "siti@sekolah.sch.id", Password: "rahasia123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(context.Background(), RegisterInput{
		UserName: "siti", FullName: "X", Email: "lain@sekolah.sch.id", Password: "rahasia123",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(context.Background(), RegisterInput{
		UserName: "budi", FullName: "Budi", Email: "budi@sekolah.sch.id", Password: "pendek",
	})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginByEmailOrUsername(t *testing.T) {
	svc := newTestService(t, nil)
	u := register(t, svc)

	for _, ident := range []string{"siti", "SITI@sekolah.sch.id"} {
		tok, err := svc.Login(context.Background(), ident, "rahasia123")
		require.NoError(t, err, ident)
		assert.Equal(t, "Bearer", tok.TokenType)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(tok.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("rahasia-test"), nil
		}, jwt.WithoutClaimsValidation())
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), claims["id"])
		assert.Equal(t, constants.RoleSiswa, claims["role"])
	}

	_, err := svc.Login(context.Background(), "siti", "salah123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "tidakada", "rahasia123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc := newTestService(t, nil)
	u := register(t, svc)
	require.NoError(t, svc.DB.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), "siti", "rahasia123")
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginGoogleCreatesThenReusesAccount(t *testing.T) {
	g := fakeGoogle{id: GoogleIdentity{Sub: "g-123", Email: "andi@gmail.com", Name: "Andi Wijaya"}}
	svc := newTestService(t, g)

	first, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "andi-wijaya", first.User.UserName)

	second, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	var n int64
	require.NoError(t, svc.DB.Model(&userModel.UserModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLoginGoogleLinksExistingEmail(t *testing.T) {
	svc := newTestService(t, nil)
	u := register(t, svc)
	svc.Google = fakeGoogle{id: GoogleIdentity{Sub: "g-9", Email: "siti@sekolah.sch.id", Name: "Siti"}}

	tok, err := svc.LoginGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, u.ID, tok.User.ID)

	linked, err := authRepo.FindUserByGoogleID(context.Background(), svc.DB, "g-9")
	require.NoError(t, err)
	assert.Equal(t, u.ID, linked.ID)
}

func TestLoginGoogleInvalidToken(t *testing.T) {
	svc := newTestService(t, fakeGoogle{err: errors.Join(ErrInvalidGoogleToken, errors.New("aud"))})
	_, err := svc.LoginGoogle(context.Background(), "x")
	require.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestLogoutBlacklistsTokenOnce(t *testing.T) {
	svc := newTestService(t, nil)
	register(t, svc)
	tok, err := svc.Login(context.Background(), "siti", "rahasia123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tok.AccessToken, nil))
	require.NoError(t, svc.Logout(context.Background(), tok.AccessToken, nil))

	var rows []authModel.TokenBlacklistModel
	require.NoError(t, svc.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, tok.AccessToken, rows[0].Token)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t, nil)
	u := register(t, svc)

	require.ErrorIs(t, svc.ChangePassword(context.Background(), u.ID, "salah123", "baru12345"), ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "rahasia123", "baru12345"))

	_, err := svc.Login(context.Background(), "siti", "baru12345")
	require.NoError(t, err)
}

func TestMeIncludesMembership(t *testing.T) {
	svc := newTestService(t, nil)
	u := register(t, svc)

	me, err := svc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, me.MembershipStatus)
	assert.Equal(t, constants.MembershipActive, *me.MembershipStatus)
}

func TestCleanupExpiredBlacklist(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	require.NoError(t, authRepo.BlacklistToken(ctx, svc.DB, "lama", nil, -48*time.Hour))
	require.NoError(t, authRepo.BlacklistToken(ctx, svc.DB, "baru", nil, time.Hour))

	n, err := authRepo.CleanupExpiredBlacklist(ctx, svc.DB, time.Now().UTC(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left []authModel.TokenBlacklistModel
	require.NoError(t, svc.DB.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "baru", left[0].Token)
}
