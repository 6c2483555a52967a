package auth_test

import (
	"context"
	"io"
	"mime/multipart"

	auth "github.com/goliatone/go-identity"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
)

// testIdentity is a plain identity fixture.
type testIdentity struct {
	id    string
	email string
	roles []string
}

func (t testIdentity) ID() string      { return t.id }
func (t testIdentity) Email() string   { return t.email }
func (t testIdentity) Roles() []string { return t.roles }

// MockUserProvider implements auth.UserProvider
type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) FindByEmail(ctx context.Context, email string) (auth.Identity, error) {
	args := m.Called(ctx, email)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockUserProvider) FindByID(ctx context.Context, id string) (auth.Identity, error) {
	args := m.Called(ctx, id)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockUserProvider) ValidateCredentials(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockUserProvider) CreateUser(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func testConfig(opts ...auth.Option) auth.Config {
	cfg, err := auth.NewConfig("test-signing-key-0123456789", opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// fakeContext is a stateful router.Context stand-in. Locals behave like the
// real adapter's per-request store; JSON and Status record what was written.
type fakeContext struct {
	locals    map[any]any
	headers   map[string]string
	queries   map[string]string
	params    map[string]string
	cookies   map[string]string
	ctx       context.Context
	bindFn    func(any) error
	nextErr   error
	NextCount int

	StatusCode int
	JSONBody   any
	SentString string
}

var _ router.Context = (*fakeContext)(nil)

func newFakeContext() *fakeContext {
	return &fakeContext{
		locals:  map[any]any{},
		headers: map[string]string{},
		queries: map[string]string{},
		params:  map[string]string{},
		cookies: map[string]string{},
		ctx:     context.Background(),
	}
}

func (f *fakeContext) Next() error {
	f.NextCount++
	return f.nextErr
}

func (f *fakeContext) Context() context.Context         { return f.ctx }
func (f *fakeContext) SetContext(ctx context.Context)   { f.ctx = ctx }
func (f *fakeContext) Path() string                     { return "/" }
func (f *fakeContext) Method() string                   { return "GET" }
func (f *fakeContext) Body() []byte                     { return nil }
func (f *fakeContext) NoContent(code int) error         { f.StatusCode = code; return nil }
func (f *fakeContext) OriginalURL() string              { return "/" }
func (f *fakeContext) OnNext(callback func() error)     {}
func (f *fakeContext) Referer() string                  { return "" }
func (f *fakeContext) Set(key string, val any)          {}
func (f *fakeContext) Cookie(cookie *router.Cookie)     {}
func (f *fakeContext) CookieParser(i any) error         { return nil }
func (f *fakeContext) BindJSON(i any) error             { return f.Bind(i) }
func (f *fakeContext) BindXML(i any) error              { return f.Bind(i) }
func (f *fakeContext) BindQuery(i any) error            { return f.Bind(i) }
func (f *fakeContext) Queries() map[string]string       { return f.queries }
func (f *fakeContext) SetHeader(k, v string) router.Context {
	f.headers[k] = v
	return f
}

func (f *fakeContext) Status(code int) router.Context {
	f.StatusCode = code
	return f
}

func (f *fakeContext) SendString(s string) error {
	f.SentString = s
	return nil
}

func (f *fakeContext) Send(b []byte) error {
	f.SentString = string(b)
	return nil
}

func (f *fakeContext) JSON(code int, val any) error {
	f.StatusCode = code
	f.JSONBody = val
	return nil
}

func (f *fakeContext) Render(name string, bind any, layout ...string) error { return nil }

func (f *fakeContext) Redirect(path string, status ...int) error { return nil }

func (f *fakeContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	return nil
}

func (f *fakeContext) RedirectBack(fallback string, status ...int) error { return nil }

func (f *fakeContext) Header(key string) string { return f.headers[key] }

func (f *fakeContext) Get(key string, defaultValue any) any {
	if v, ok := f.locals[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) GetBool(key string, defaultValue bool) bool { return defaultValue }
func (f *fakeContext) GetInt(key string, def int) int             { return def }

func (f *fakeContext) Bind(i any) error {
	if f.bindFn != nil {
		return f.bindFn(i)
	}
	return nil
}

func (f *fakeContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := f.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) Param(key string, defaultValue ...string) string {
	if v, ok := f.params[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) ParamsInt(key string, defaultValue int) int { return defaultValue }

func (f *fakeContext) Query(key string, defaultValue ...string) string {
	if v, ok := f.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) QueryValues(name string) []string {
	if v, ok := f.queries[name]; ok {
		return []string{v}
	}
	return nil
}

func (f *fakeContext) FormFile(key string) (*multipart.FileHeader, error) { return nil, nil }

func (f *fakeContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) IP() string                     { return "" }
func (f *fakeContext) SendStatus(code int) error      { f.StatusCode = code; return nil }
func (f *fakeContext) SendStream(r io.Reader) error   { return nil }
func (f *fakeContext) RouteName() string              { return "" }
func (f *fakeContext) RouteParams() map[string]string { return f.params }

func (f *fakeContext) LocalsMerge(key any, value map[string]any) map[string]any {
	existing, _ := f.locals[key].(map[string]any)
	if existing == nil {
		existing = map[string]any{}
	}
	for k, v := range value {
		existing[k] = v
	}
	f.locals[key] = existing
	return existing
}

func (f *fakeContext) QueryInt(key string, defaultValue int) int { return defaultValue }

func (f *fakeContext) GetString(key string, defaultValue string) string {
	if v, ok := f.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.locals[key] = value[0]
		return value[0]
	}
	return f.locals[key]
}
