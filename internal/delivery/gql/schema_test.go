package gql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"people-graphql-api/internal/auth"
	"people-graphql-api/internal/config"
	otpMocks "people-graphql-api/internal/domain/otp/mocks"
	domainUser "people-graphql-api/internal/domain/user"
	userMocks "people-graphql-api/internal/domain/user/mocks"
	"people-graphql-api/internal/events"
	"people-graphql-api/internal/middleware"
	usecaseUser "people-graphql-api/internal/usecase/user"
	appErrors "people-graphql-api/pkg/errors"
	"people-graphql-api/pkg/utils"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "gql-secret"

type env struct {
	schema graphql.Schema
	users  *userMocks.MockRepository
	otps   *otpMocks.MockRepository
	mailer *otpMocks.MockDispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	e := &env{
		users:  userMocks.NewMockRepository(ctrl),
		otps:   otpMocks.NewMockRepository(ctrl),
		mailer: otpMocks.NewMockDispatcher(ctrl),
	}
	cfg := &config.Config{
		JWT:      config.JWTConfig{Secret: testSecret, ExpiryHours: 48},
		Security: config.SecurityConfig{SaltRounds: 4},
		OTP:      config.OTPConfig{TTLMinutes: 5, Length: 6},
	}
	svc := usecaseUser.NewService(e.users, e.otps, e.mailer, events.NopPublisher{}, cfg)

	schema, err := NewSchema(NewResolver(svc))
	require.NoError(t, err)
	e.schema = schema
	return e
}

func (e *env) do(ctx context.Context, query string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:        e.schema,
		RequestString: query,
		Context:       ctx,
	})
}

func authed() context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: "admin-1", Role: "Admin"})
}

func field(t *testing.T, r *graphql.Result, name string) map[string]interface{} {
	t.Helper()
	require.Empty(t, r.Errors)
	data, ok := r.Data.(map[string]interface{})
	require.True(t, ok)
	out, ok := data[name].(map[string]interface{})
	require.True(t, ok, "field %s is %v", name, data[name])
	return out
}

func TestCreateUser(t *testing.T) {
	e := newEnv(t)
	e.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domainUser.User) error {
		u.ID = "user-1"
		return nil
	})

	r := e.do(context.Background(), `mutation {
		createUser(input: {name: "Ada", email: "ada@example.com", password: "s3cret", phone: "1712345678"}) {
			id name email password role avatar dialCode phone
		}
	}`)

	u := field(t, r, "createUser")
	assert.Equal(t, "user-1", u["id"])
	assert.Equal(t, "secured_password", u["password"])
	assert.Equal(t, "User", u["role"])
	assert.Equal(t, "", u["avatar"])
	assert.Equal(t, "1712345678", u["phone"])
}

func TestCreateUser_Conflict(t *testing.T) {
	e := newEnv(t)
	e.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domainUser.DuplicateFieldError{Field: "email"})

	r := e.do(context.Background(), `mutation {
		createUser(input: {name: "Ada", email: "ada@example.com", password: "s3cret"}) { id }
	}`)

	require.Len(t, r.Errors, 1)
	assert.Equal(t, "email already exists in database", r.Errors[0].Message)
	assert.Equal(t, ExtConflict, r.Errors[0].Extensions["code"])
	assert.Equal(t, "email", r.Errors[0].Extensions["field"])
}

func TestLoginUser(t *testing.T) {
	e := newEnv(t)
	hash, err := utils.HashPassword("s3cret", 4)
	require.NoError(t, err)
	e.users.EXPECT().GetByEmail(gomock.Any(), "ada@example.com").
		Return(&domainUser.User{ID: "user-1", Email: "ada@example.com", PasswordHashed: hash, Role: domainUser.RoleEditor}, nil)

	r := e.do(context.Background(), `{
		loginUser(email: "ada@example.com", password: "s3cret") { userId userRole token tokenExpirationHours tokenExpiration }
	}`)

	p := field(t, r, "loginUser")
	assert.Equal(t, "user-1", p["userId"])
	assert.Equal(t, "Editor", p["userRole"])
	assert.Equal(t, 48, p["tokenExpirationHours"])
	assert.Equal(t, 48, p["tokenExpiration"])

	claims, err := utils.ValidateToken(p["token"].(string), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestGetOtp_InvalidEmail(t *testing.T) {
	e := newEnv(t)

	r := e.do(context.Background(), `mutation { getOtp(email: "nope") }`)

	require.Len(t, r.Errors, 1)
	assert.Equal(t, "invalid email", r.Errors[0].Message)
	assert.Equal(t, ExtBadUserInput, r.Errors[0].Extensions["code"])
}

func TestGetOtp_StoreFailure(t *testing.T) {
	e := newEnv(t)
	e.otps.EXPECT().GetActive(gomock.Any(), "ada@example.com").Return(nil, errors.New("otp not found"))

	r := e.do(context.Background(), `mutation { getOtp(email: "ada@example.com") }`)

	require.Len(t, r.Errors, 1)
	assert.Equal(t, ExtInternalServer, r.Errors[0].Extensions["code"])
	assert.True(t, strings.HasPrefix(r.Errors[0].Message, "failed to send OTP"))
}

func TestGatedMutationsWithoutIdentity(t *testing.T) {
	e := newEnv(t)

	queries := []string{
		`mutation { updateUser(id: "user-1", input: {name: "x"}) { id } }`,
		`mutation { updateUserRole(id: "user-1", input: {role: Admin}) { id } }`,
		`mutation { deleteUser(id: "user-1") { id } }`,
	}
	for _, q := range queries {
		r := e.do(context.Background(), q)
		require.Len(t, r.Errors, 1, q)
		assert.Equal(t, "unauthenticated", r.Errors[0].Message)
		assert.Equal(t, ExtUnauthenticated, r.Errors[0].Extensions["code"])
	}
}

func TestDeleteUser_UnknownIDIsNull(t *testing.T) {
	e := newEnv(t)
	e.users.EXPECT().Delete(gomock.Any(), "missing").Return(nil, domainUser.ErrUserNotFound)

	r := e.do(authed(), `mutation { deleteUser(id: "missing") { id } }`)

	require.Empty(t, r.Errors)
	assert.Equal(t, map[string]interface{}{"deleteUser": nil}, r.Data)
}

func TestUpdateUserRole(t *testing.T) {
	e := newEnv(t)
	e.users.EXPECT().GetByID(gomock.Any(), "user-1").
		Return(&domainUser.User{ID: "user-1", Name: "Ada", Email: "ada@example.com", Role: domainUser.RoleUser}, nil)
	e.users.EXPECT().Replace(gomock.Any(), gomock.Any()).Return(nil)

	r := e.do(authed(), `mutation { updateUserRole(id: "user-1", input: {role: Moderator}) { id role password } }`)

	u := field(t, r, "updateUserRole")
	assert.Equal(t, "Moderator", u["role"])
	assert.Equal(t, "secured_password", u["password"])
}

func TestListAndGetUser(t *testing.T) {
	e := newEnv(t)
	e.users.EXPECT().GetAll(gomock.Any()).Return([]*domainUser.User{
		{ID: "1", Name: "A", Email: "a@x.com", PasswordHashed: "h", Role: domainUser.RoleAdmin},
	}, nil)
	e.users.EXPECT().GetByID(gomock.Any(), "bad").Return(nil, domainUser.ErrInvalidUserID)

	r := e.do(context.Background(), `{ listUser { id password role } }`)
	require.Empty(t, r.Errors)
	list := r.Data.(map[string]interface{})["listUser"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "secured_password", list[0].(map[string]interface{})["password"])

	r = e.do(context.Background(), `{ getUser(id: "bad") { id } }`)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "invalid user id", r.Errors[0].Message)
	assert.Equal(t, ExtBadUserInput, r.Errors[0].Extensions["code"])
}

func TestToGraphQLError_Unclassified(t *testing.T) {
	err := toGraphQLError(context.Background(), "test", errors.New("boom"))

	var gqlErr *Error
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "internal server error", gqlErr.Message)
	assert.Equal(t, map[string]interface{}{"code": ExtInternalServer}, gqlErr.Extensions())

	err = toGraphQLError(context.Background(), "test", appErrors.NewAppError("TEAPOT", "short and stout", nil))
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "internal server error", gqlErr.Message)

	err = toGraphQLError(context.Background(), "test", appErrors.NotFound("user not found"))
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, ExtNotFound, gqlErr.Code)

	err = toGraphQLError(context.Background(), "test", fmt.Errorf("wrapped: %w", appErrors.Conflict("email")))
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, map[string]interface{}{"code": ExtConflict, "field": "email"}, gqlErr.Extensions())
	assert.Equal(t, "email already exists in database", gqlErr.Message)
}

func TestHandler_BearerIdentityReachesResolvers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := newEnv(t)
	e.users.EXPECT().Delete(gomock.Any(), "user-1").
		Return(&domainUser.User{ID: "user-1", Name: "Ada", Email: "ada@example.com", Role: domainUser.RoleUser}, nil)

	router := gin.New()
	router.Use(middleware.AuthMiddleware(testSecret))
	NewHandler(&e.schema, false).RegisterRoutes(router)

	token, _, err := utils.GenerateToken("admin-1", "admin@x.com", "Admin", testSecret, 48)
	require.NoError(t, err)

	body := `{"query":"mutation { deleteUser(id: \"user-1\") { id email password } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			DeleteUser struct {
				ID       string `json:"id"`
				Email    string `json:"email"`
				Password string `json:"password"`
			} `json:"deleteUser"`
		} `json:"data"`
		Errors []json.RawMessage `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "user-1", resp.Data.DeleteUser.ID)
	assert.Equal(t, "secured_password", resp.Data.DeleteUser.Password)
}

func TestDescribeOperation(t *testing.T) {
	op, ok := describeOperation(&handler.RequestOptions{Query: `{ listUser { id } getUser(id: "1") { id } }`})
	require.True(t, ok)
	assert.Equal(t, "query", op.Type)
	assert.Empty(t, op.Name)
	assert.Equal(t, []string{"listUser", "getUser"}, op.Fields)

	op, ok = describeOperation(&handler.RequestOptions{
		Query:         `query Everyone { listUser { id } } mutation Remove($id: String!) { deleteUser(id: $id) { id } }`,
		OperationName: "Remove",
	})
	require.True(t, ok)
	assert.Equal(t, middleware.GraphQLOperation{Type: "mutation", Name: "Remove", Fields: []string{"deleteUser"}}, op)

	_, ok = describeOperation(&handler.RequestOptions{Query: "{ broken"})
	assert.False(t, ok)
	_, ok = describeOperation(&handler.RequestOptions{})
	assert.False(t, ok)
}

func TestHandler_RecordsOperationAndKeepsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := newEnv(t)
	e.users.EXPECT().GetAll(gomock.Any()).Return(nil, nil)

	var recorded interface{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		recorded, _ = c.Get("graphql_operation")
	})
	NewHandler(&e.schema, false).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"query All { listUser { id } }"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"listUser":[]}}`, w.Body.String())
	assert.Equal(t, middleware.GraphQLOperation{Type: "query", Name: "All", Fields: []string{"listUser"}}, recorded)
}
