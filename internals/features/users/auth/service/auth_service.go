package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
	authRepo "simpus_backend/internals/features/users/auth/repository"
	userModel "simpus_backend/internals/features/users/user/model"
	helper "simpus_backend/internals/helpers"
	"simpus_backend/internals/helpers/dbtime"
)

var (
	ErrInvalidCredentials = errors.New("identifier atau password salah")
	ErrAccountInactive    = errors.New("akun Anda telah dinonaktifkan, hubungi admin")
	ErrEmailTaken         = errors.New("email sudah terdaftar")
	ErrUsernameTaken      = errors.New("username sudah dipakai")
	ErrInvalidGoogleToken = errors.New("google ID token tidak valid")
	ErrWrongPassword      = errors.New("password lama salah")
	ErrUserNotFound       = errors.New("user tidak ditemukan")
	ErrWeakPassword       = errors.New("password minimal 8 karakter dan harus berisi huruf dan angka")
)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

/* ==========================
   Google verifier
========================== */

type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleVerifier memverifikasi ID token Google Sign-In.
type GoogleVerifier interface {
	Verify(idToken string) (GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return googleVerifier{clientID: clientID}
}

func (g googleVerifier) Verify(idToken string) (GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	return GoogleIdentity{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}

/* ==========================
   Service
========================== */

type AuthService struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Google   GoogleVerifier
	Now      func() time.Time
	TTLLimit time.Duration
}

func NewAuthService(db *gorm.DB, google GoogleVerifier, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		DB:       db,
		Log:      log,
		Google:   google,
		Now:      time.Now,
		TTLLimit: accessTTLDefault,
	}
}

type RegisterInput struct {
	UserName string  `json:"user_name" validate:"required,min=3,max=50"`
	FullName string  `json:"full_name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	NIS      *string `json:"nis" validate:"omitempty,max=32"`
	Class    *string `json:"class" validate:"omitempty,max=40"`
	Phone    *string `json:"phone_number" validate:"omitempty,max=20"`
}

func (in *RegisterInput) Normalize() {
	in.UserName = strings.TrimSpace(in.UserName)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}

func ValidatePassword(pw string) error {
	if len(pw) < 8 || !hasLetter.MatchString(pw) || !hasNumber.MatchString(pw) {
		return ErrWeakPassword
	}
	return nil
}

// Register membuat akun anggota (role siswa) beserta profil keanggotaan aktif.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*userModel.UserModel, error) {
	in.Normalize()
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if _, err := authRepo.FindUserByEmail(ctx, s.DB, in.Email); err == nil {
		return nil, ErrEmailTaken
	}
	taken, err := authRepo.IsUsernameTaken(ctx, s.DB, in.UserName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &userModel.UserModel{
		UserName: in.UserName,
		FullName: in.FullName,
		Email:    in.Email,
		Password: hash,
		Role:     constants.RoleSiswa,
		IsActive: true,
	}
	join := dbtime.DateOf(s.Now())
	detail := &userModel.UserDetailModel{
		UserDetailNIS:              in.NIS,
		UserDetailClass:            in.Class,
		UserDetailPhoneNumber:      in.Phone,
		UserDetailJoinDate:         &join,
		UserDetailMembershipStatus: constants.MembershipActive,
	}
	if err := authRepo.CreateUserWithDetail(ctx, s.DB, user, detail); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Log.Info("[AUTH] registrasi anggota baru", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login menerima email atau username.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (TokenResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return TokenResponse{}, ErrInvalidCredentials
	}
	user, err := authRepo.FindUserByEmailOrUsername(ctx, s.DB, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenResponse{}, ErrInvalidCredentials
		}
		return TokenResponse{}, err
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenResponse{}, ErrAccountInactive
	}
	return IssueAccessToken(*user, s.Now())
}

// LoginGoogle mencari user dari google_id, lalu email; kalau belum ada dibuat sebagai anggota.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (TokenResponse, error) {
	if s.Google == nil || strings.TrimSpace(idToken) == "" {
		return TokenResponse{}, ErrInvalidGoogleToken
	}
	id, err := s.Google.Verify(idToken)
	if err != nil {
		return TokenResponse{}, err
	}

	user, err := authRepo.FindUserByGoogleID(ctx, s.DB, id.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.linkOrCreateGoogleUser(ctx, id)
	}
	if err != nil {
		return TokenResponse{}, err
	}
	if !user.IsActive {
		return TokenResponse{}, ErrAccountInactive
	}
	return IssueAccessToken(*user, s.Now())
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, id GoogleIdentity) (*userModel.UserModel, error) {
	if existing, err := authRepo.FindUserByEmail(ctx, s.DB, id.Email); err == nil {
		if err := authRepo.LinkGoogleID(ctx, s.DB, existing.ID, id.Sub); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userName, err := s.uniqueUserName(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(generateDummyPassword())
	if err != nil {
		return nil, err
	}
	sub := id.Sub
	user := &userModel.UserModel{
		UserName: userName,
		FullName: id.Name,
		Email:    strings.ToLower(id.Email),
		Password: hash,
		GoogleID: &sub,
		Role:     constants.RoleSiswa,
		IsActive: true,
	}
	join := dbtime.DateOf(s.Now())
	if err := authRepo.CreateUserWithDetail(ctx, s.DB, user, &userModel.UserDetailModel{
		UserDetailJoinDate:         &join,
		UserDetailMembershipStatus: constants.MembershipActive,
	}); err != nil {
		return nil, fmt.Errorf("create google user: %w", err)
	}
	s.Log.Info("[AUTH] akun google baru", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *AuthService) uniqueUserName(ctx context.Context, id GoogleIdentity) (string, error) {
	// Slugify mengembalikan "item" untuk nama kosong
	base := helper.Slugify(id.Name, 40)
	if base == "item" {
		base = helper.Slugify(strings.SplitN(id.Email, "@", 2)[0], 40)
	}
	cand := base
	for i := 2; ; i++ {
		taken, err := authRepo.IsUsernameTaken(ctx, s.DB, cand)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
		cand = fmt.Sprintf("%s-%d", base, i)
	}
}

func generateDummyPassword() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

// Logout mem-blacklist access token sampai exp-nya lewat.
func (s *AuthService) Logout(ctx context.Context, accessToken string, userID *string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}
	ttl := resolveBlacklistTTL(accessToken, s.TTLLimit, s.Now())
	return authRepo.BlacklistToken(ctx, s.DB, accessToken, userID, ttl)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := CheckPasswordHash(user.Password, current); err != nil {
		return ErrWrongPassword
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return authRepo.UpdateUserPassword(ctx, s.DB, userID, hash)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (UserView, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserView{}, ErrUserNotFound
		}
		return UserView{}, err
	}
	return ToUserView(*user), nil
}

/* ==========================
   View
========================== */

type UserView struct {
	ID               uuid.UUID `json:"id"`
	UserName         string    `json:"user_name"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	IsActive         bool      `json:"is_active"`
	MembershipStatus *string   `json:"membership_status,omitempty"`
	Class            *string   `json:"class,omitempty"`
}

func ToUserView(u userModel.UserModel) UserView {
	v := UserView{
		ID:       u.ID,
		UserName: u.UserName,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
	if u.Detail != nil {
		ms := u.Detail.UserDetailMembershipStatus
		v.MembershipStatus = &ms
		v.Class = u.Detail.UserDetailClass
	}
	return v
}
