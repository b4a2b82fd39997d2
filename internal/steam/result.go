package steam

import "fmt"

// EResult values the uploader actually branches on or wants to name in
// logs. The SDK defines many more; unknown codes render numerically.
const (
	ResultOK                    = 1
	ResultFail                  = 2
	ResultInvalidParam          = 8
	ResultFileNotFound          = 9
	ResultAccessDenied          = 15
	ResultTimeout               = 16
	ResultNotLoggedOn           = 21
	ResultInsufficientPrivilege = 24
	ResultLimitExceeded         = 25
)

var resultNames = map[int32]string{
	ResultFail:                  "k_EResultFail",
	ResultInvalidParam:          "k_EResultInvalidParam",
	ResultFileNotFound:          "k_EResultFileNotFound",
	ResultAccessDenied:          "k_EResultAccessDenied",
	ResultTimeout:               "k_EResultTimeout",
	ResultNotLoggedOn:           "k_EResultNotLoggedOn",
	ResultInsufficientPrivilege: "k_EResultInsufficientPrivilege",
	ResultLimitExceeded:         "k_EResultLimitExceeded",
}

// ResultError is a non-OK EResult returned by a workshop call.
type ResultError struct {
	Code int32
}

func (e *ResultError) Error() string {
	if name, ok := resultNames[e.Code]; ok {
		return fmt.Sprintf("workshop call failed: %s", name)
	}
	return fmt.Sprintf("workshop call failed: EResult %d", e.Code)
}

// AuthFlavored reports whether the failure suggests the session went
// stale. These trigger a client re-attach rather than surfacing directly.
func (e *ResultError) AuthFlavored() bool {
	return e.Code == ResultAccessDenied || e.Code == ResultNotLoggedOn
}
