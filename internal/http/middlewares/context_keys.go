package middlewares

type ctxKey string

const (
	CtxUserID   ctxKey = "auth.userID"
	CtxUsername ctxKey = "auth.username"
	CtxPassword ctxKey = "auth.password"
)
