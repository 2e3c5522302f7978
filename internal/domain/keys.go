package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyFullName  CtxKey = "FullName"
	KeyRequestID CtxKey = "RequestID"
)

// Principal is the authenticated user a call acts on behalf of.
// Usecases receive it as an explicit argument and repositories filter by UserID.
type Principal struct {
	UserID   int64
	Email    string
	FullName string
}
