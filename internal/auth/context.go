package auth

import "github.com/labstack/echo/v4"

// Context はリクエストの認証状態。Anonymous か AuthenticatedAs(userID) のどちらか
type Context struct {
	userID int64
}

func Anonymous() Context {
	return Context{}
}

func AuthenticatedAs(userID int64) Context {
	if userID <= 0 {
		return Anonymous()
	}
	return Context{userID: userID}
}

func (c Context) IsAuthenticated() bool {
	return c.userID > 0
}

// UserID は認証済みのときだけ ok=true
func (c Context) UserID() (int64, bool) {
	return c.userID, c.userID > 0
}

func (c Context) String() string {
	if !c.IsAuthenticated() {
		return "anonymous"
	}
	return "user"
}

const echoKey = "auth_context"

// SetEcho はミドルウェアから呼ぶ
func SetEcho(c echo.Context, ac Context) {
	c.Set(echoKey, ac)
}

// FromEcho は未設定なら Anonymous を返す
func FromEcho(c echo.Context) Context {
	ac, ok := c.Get(echoKey).(Context)
	if !ok {
		return Anonymous()
	}
	return ac
}
