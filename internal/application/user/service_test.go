package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/unibuy/unibuy-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockVerificationStore struct{ mock.Mock }

func (m *mockVerificationStore) Put(ctx context.Context, v *domain.UserVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVerificationStore) Delete(ctx context.Context, userID, purpose string) error {
	return m.Called(ctx, userID, purpose).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) SoftDeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendOTPEmail(ctx context.Context, to, code string) error {
	return m.Called(ctx, to, code).Error(0)
}
func (m *mockMailer) SendPasswordResetEmail(ctx context.Context, to, code string) error {
	return m.Called(ctx, to, code).Error(0)
}

func newService(us *mockUserStore, vs *mockVerificationStore, ml *mockMailer) Service {
	return NewService(ServiceDeps{UserRepo: us, VerificationRepo: vs, SessionRepo: &mockSessionStore{}, Mailer: ml})
}

func newServiceWithSessions(us *mockUserStore, vs *mockVerificationStore, ss *mockSessionStore) Service {
	return NewService(ServiceDeps{UserRepo: us, VerificationRepo: vs, SessionRepo: ss})
}

func validRegisterRequest() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Email:      "jane.doe@uniport.edu.ng",
		Password:   "Str0ngPass",
		FirstName:  "Jane",
		LastName:   "Doe",
		University: domain.UniversityUniport,
	}
}

// --- Register ---

func TestRegister_NonSchoolEmailRejected(t *testing.T) {
	us := &mockUserStore{}
	req := validRegisterRequest()
	req.Email = "jane.doe@gmail.com"

	svc := newService(us, nil, nil)
	u, err := svc.Register(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, u)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	req := validRegisterRequest()
	req.Password = "nodigits"

	svc := newService(&mockUserStore{}, nil, nil)
	_, err := svc.Register(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	req := validRegisterRequest()
	us.On("GetByEmail", mock.Anything, req.Email).Return(&domain.User{UserID: "existing"}, nil)

	svc := newService(us, nil, nil)
	_, err := svc.Register(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVerificationStore{}
	ml := &mockMailer{}
	req := validRegisterRequest()

	us.On("GetByEmail", mock.Anything, req.Email).Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID != "" &&
			u.Email == req.Email &&
			u.Role == domain.RoleUser &&
			u.Enable &&
			!u.IsVerified &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
	})).Return(nil)
	vs.On("Put", mock.Anything, mock.MatchedBy(func(v *domain.UserVerification) bool {
		return v.Purpose == domain.OTPPurposeSignup &&
			len(v.Code) == 6 &&
			v.ExpiresAt > time.Now().Unix()
	})).Return(nil)
	ml.On("SendOTPEmail", mock.Anything, req.Email, mock.Anything).Return(nil)

	svc := newService(us, vs, ml)
	u, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.IsVerified)
	us.AssertExpectations(t)
	vs.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRegister_DeliveryFailureKeepsAccount(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVerificationStore{}
	ml := &mockMailer{}
	req := validRegisterRequest()

	us.On("GetByEmail", mock.Anything, req.Email).Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	vs.On("Put", mock.Anything, mock.AnythingOfType("*domain.UserVerification")).Return(nil)
	ml.On("SendOTPEmail", mock.Anything, req.Email, mock.Anything).Return(domain.ErrDelivery)

	svc := newService(us, vs, ml)
	u, err := svc.Register(context.Background(), req)

	// The account and pending code exist; only delivery failed.
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDelivery))
	require.NotNil(t, u)
	assert.Equal(t, req.Email, u.Email)
}

// --- Update ---

func TestUpdate_NoFieldsIsNoOp(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@rsu.edu.ng"}, nil)

	svc := newService(us, nil, nil)
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{})

	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_Names(t *testing.T) {
	us := &mockUserStore{}
	current := &domain.User{UserID: "u1", Email: "a@rsu.edu.ng", FirstName: "Jane"}
	us.On("Get", mock.Anything, "u1").Return(current, nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{
		fieldFirstName: "Janet",
		fieldLastName:  "Doe",
	}).Return(nil)

	svc := newService(us, nil, nil)
	first, last := "Janet", "Doe"
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{
		FirstName: &first,
		LastName:  &last,
	})

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestUpdate_EmailChangeResetsVerificationAndReissuesCode(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVerificationStore{}
	ml := &mockMailer{}

	current := &domain.User{UserID: "u1", Email: "old@rsu.edu.ng", IsVerified: true}
	updated := &domain.User{UserID: "u1", Email: "new@rsu.edu.ng", IsVerified: false}
	us.On("Get", mock.Anything, "u1").Return(current, nil).Once()
	us.On("GetByEmail", mock.Anything, "new@rsu.edu.ng").Return(nil, domain.ErrNotFound)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{
		fieldEmail:      "new@rsu.edu.ng",
		fieldIsVerified: false,
	}).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(updated, nil).Once()
	vs.On("Put", mock.Anything, mock.MatchedBy(func(v *domain.UserVerification) bool {
		return v.UserID == "u1" && v.Purpose == domain.OTPPurposeSignup
	})).Return(nil)
	ml.On("SendOTPEmail", mock.Anything, "new@rsu.edu.ng", mock.Anything).Return(nil)

	svc := newService(us, vs, ml)
	newEmail := "new@rsu.edu.ng"
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Email: &newEmail})

	require.NoError(t, err)
	assert.False(t, u.IsVerified)
	us.AssertExpectations(t)
	vs.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestUpdate_EmailTakenByAnotherAccount(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "old@rsu.edu.ng"}, nil)
	us.On("GetByEmail", mock.Anything, "taken@rsu.edu.ng").Return(&domain.User{UserID: "u2"}, nil)

	svc := newService(us, nil, nil)
	taken := "taken@rsu.edu.ng"
	_, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Email: &taken})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_SameEmailDoesNotResetVerification(t *testing.T) {
	us := &mockUserStore{}
	current := &domain.User{UserID: "u1", Email: "a@rsu.edu.ng", IsVerified: true}
	us.On("Get", mock.Anything, "u1").Return(current, nil)

	svc := newService(us, nil, nil)
	same := "a@rsu.edu.ng"
	u, err := svc.Update(context.Background(), "u1", domain.UpdateUserRequest{Email: &same})

	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- Deactivate ---

func TestDeactivate_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVerificationStore{}
	ss := &mockSessionStore{}

	us.On("SoftDelete", mock.Anything, "u1").Return(nil)
	ss.On("SoftDeleteByUser", mock.Anything, "u1").Return(nil)
	vs.On("Delete", mock.Anything, "u1", domain.OTPPurposeSignup).Return(nil)
	vs.On("Delete", mock.Anything, "u1", domain.OTPPurposePasswordReset).Return(nil)

	svc := newServiceWithSessions(us, vs, ss)
	require.NoError(t, svc.Deactivate(context.Background(), "u1"))

	us.AssertExpectations(t)
	ss.AssertExpectations(t)
	vs.AssertExpectations(t)
}

func TestDeactivate_UserStoreFailure(t *testing.T) {
	us := &mockUserStore{}
	ss := &mockSessionStore{}
	us.On("SoftDelete", mock.Anything, "u1").Return(errors.New("dynamo unavailable"))

	svc := newServiceWithSessions(us, &mockVerificationStore{}, ss)
	require.Error(t, svc.Deactivate(context.Background(), "u1"))
	ss.AssertNotCalled(t, "SoftDeleteByUser", mock.Anything, mock.Anything)
}

func TestDeactivate_SessionCleanupFailureIsNonFatal(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVerificationStore{}
	ss := &mockSessionStore{}

	us.On("SoftDelete", mock.Anything, "u1").Return(nil)
	ss.On("SoftDeleteByUser", mock.Anything, "u1").Return(errors.New("dynamo unavailable"))
	vs.On("Delete", mock.Anything, "u1", mock.Anything).Return(nil)

	svc := newServiceWithSessions(us, vs, ss)
	require.NoError(t, svc.Deactivate(context.Background(), "u1"))
}
