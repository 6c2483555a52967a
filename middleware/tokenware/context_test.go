package tokenware_test

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/goliatone/go-router"
)

// stubContext is a minimal stateful router.Context for middleware tests.
type stubContext struct {
	locals    map[any]any
	headers   map[string]string
	queries   map[string]string
	params    map[string]string
	cookies   map[string]string
	ctx       context.Context
	NextCount int

	StatusCode int
	JSONBody   any
	SentString string
}

var _ router.Context = (*stubContext)(nil)

func newStubContext() *stubContext {
	return &stubContext{
		locals:  map[any]any{},
		headers: map[string]string{},
		queries: map[string]string{},
		params:  map[string]string{},
		cookies: map[string]string{},
		ctx:     context.Background(),
	}
}

func (s *stubContext) Next() error {
	s.NextCount++
	return nil
}

func (s *stubContext) Context() context.Context       { return s.ctx }
func (s *stubContext) SetContext(ctx context.Context) { s.ctx = ctx }
func (s *stubContext) Path() string                   { return "/" }
func (s *stubContext) Method() string                 { return "GET" }
func (s *stubContext) Body() []byte                   { return nil }
func (s *stubContext) NoContent(code int) error       { s.StatusCode = code; return nil }
func (s *stubContext) OriginalURL() string            { return "/" }
func (s *stubContext) OnNext(callback func() error)   {}
func (s *stubContext) Referer() string                { return "" }
func (s *stubContext) Set(key string, val any)        {}
func (s *stubContext) Cookie(cookie *router.Cookie)   {}
func (s *stubContext) CookieParser(i any) error       { return nil }
func (s *stubContext) Bind(i any) error               { return nil }
func (s *stubContext) BindJSON(i any) error           { return nil }
func (s *stubContext) BindXML(i any) error            { return nil }
func (s *stubContext) BindQuery(i any) error          { return nil }
func (s *stubContext) Queries() map[string]string     { return s.queries }

func (s *stubContext) SetHeader(k, v string) router.Context {
	s.headers[k] = v
	return s
}

func (s *stubContext) Status(code int) router.Context {
	s.StatusCode = code
	return s
}

func (s *stubContext) SendString(str string) error {
	s.SentString = str
	return nil
}

func (s *stubContext) Send(b []byte) error {
	s.SentString = string(b)
	return nil
}

func (s *stubContext) JSON(code int, val any) error {
	s.StatusCode = code
	s.JSONBody = val
	return nil
}

func (s *stubContext) Render(name string, bind any, layout ...string) error { return nil }
func (s *stubContext) Redirect(path string, status ...int) error            { return nil }

func (s *stubContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	return nil
}

func (s *stubContext) RedirectBack(fallback string, status ...int) error { return nil }

func (s *stubContext) Header(key string) string { return s.headers[key] }

func (s *stubContext) Get(key string, defaultValue any) any {
	if v, ok := s.locals[key]; ok {
		return v
	}
	return defaultValue
}

func (s *stubContext) GetBool(key string, defaultValue bool) bool { return defaultValue }
func (s *stubContext) GetInt(key string, def int) int             { return def }

func (s *stubContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := s.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (s *stubContext) Param(key string, defaultValue ...string) string {
	if v, ok := s.params[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (s *stubContext) ParamsInt(key string, defaultValue int) int { return defaultValue }

func (s *stubContext) Query(key string, defaultValue ...string) string {
	if v, ok := s.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (s *stubContext) QueryValues(name string) []string {
	if v, ok := s.queries[name]; ok {
		return []string{v}
	}
	return nil
}

func (s *stubContext) FormFile(key string) (*multipart.FileHeader, error) { return nil, nil }

func (s *stubContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (s *stubContext) IP() string                     { return "" }
func (s *stubContext) SendStatus(code int) error      { s.StatusCode = code; return nil }
func (s *stubContext) SendStream(r io.Reader) error   { return nil }
func (s *stubContext) RouteName() string              { return "" }
func (s *stubContext) RouteParams() map[string]string { return s.params }

func (s *stubContext) LocalsMerge(key any, value map[string]any) map[string]any {
	existing, _ := s.locals[key].(map[string]any)
	if existing == nil {
		existing = map[string]any{}
	}
	for k, v := range value {
		existing[k] = v
	}
	s.locals[key] = existing
	return existing
}

func (s *stubContext) QueryInt(key string, defaultValue int) int { return defaultValue }

func (s *stubContext) GetString(key string, defaultValue string) string {
	if v, ok := s.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (s *stubContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		s.locals[key] = value[0]
		return value[0]
	}
	return s.locals[key]
}
