package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/leave"
	"github.com/trezcool/hrms/core/payroll"
	"github.com/trezcool/hrms/core/report"
	"github.com/trezcool/hrms/core/session"
	"github.com/trezcool/hrms/core/user"
	emailsvc "github.com/trezcool/hrms/services/email"
	"github.com/trezcool/hrms/storage/kvstore/memory"
	"github.com/trezcool/hrms/storage/seed"
	"github.com/trezcool/hrms/tests"
)

var (
	// seeded accounts
	adminEmail, adminPwd = "admin@company.com", "Admin@123"
	johnEmail, johnPwd   = "john@company.com", "John@123"
	janeEmail, janePwd   = "jane@company.com", "Jane@123"

	now = time.Date(2024, 3, 6, 9, 5, 0, 0, time.UTC)

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errNotSignedIn  = httpErr{Error: "user not authenticated"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

type fixture struct {
	app      *Server
	userSvc  *user.Service
	sessions *session.Manager
}

// setup serves the seeded users and leave requests, without attendance, at a fixed time.
func setup(t *testing.T) fixture {
	ctx := context.Background()
	conf := testutil.NewConfig(t)
	logger := testutil.NewLogger(t)
	validate, translator := testutil.NewValidator()
	attendance.InitValidators()
	leave.InitValidators()

	attendance.NowFunc = func() time.Time { return now }
	leave.NowFunc = func() time.Time { return now }
	t.Cleanup(func() {
		attendance.NowFunc = time.Now
		leave.NowFunc = time.Now
	})

	store := memory.New()
	users, err := seed.Users(user.PlainHasher{})
	if err != nil {
		t.Fatalf("seed.Users() failed: %v", err)
	}
	if err = store.Save(ctx, core.KeyUsers, users); err != nil {
		t.Fatalf("store.Save() failed: %v", err)
	}
	if err = store.Save(ctx, core.KeyLeaveRequests, seed.LeaveRequests()); err != nil {
		t.Fatalf("store.Save() failed: %v", err)
	}

	emailsvc.ResetSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	userSvc := user.NewService(store)
	attendanceSvc := attendance.NewService(store)
	leaveSvc := leave.NewService(store, userSvc, mailSvc, logger)
	sessions := session.NewManager(memory.New(), userSvc, user.PlainHasher{}, validate, translator)

	app := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Sessions:      sessions,
		UserSvc:       userSvc,
		AttendanceSvc: attendanceSvc,
		LeaveSvc:      leaveSvc,
		PayrollSvc:    payroll.NewService(userSvc, validate, translator),
		ReportSvc:     report.NewService(userSvc, attendanceSvc, leaveSvc),
		Validate:      validate,
		Translator:    translator,
	})
	return fixture{app: app, userSvc: userSvc, sessions: sessions}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// login signs in through the API, on tab when given.
func (f fixture) login(t *testing.T, email, pwd string, tab ...string) AuthResponse {
	req, rec := newRequest(http.MethodPost, "/v1/auth/login", marchallObj(t, session.Credentials{Email: email, Password: pwd}))
	if len(tab) > 0 {
		req.Header.Set(headerTabID, tab[0])
	}
	f.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login(%s) failed: %d %s", email, rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	unmarshal(t, rec, &resp)
	return resp
}

func (f fixture) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	f.app.ServeHTTP(rec, req)
	return rec
}

func (f fixture) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, f.do(t, tt))
		})
	}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
