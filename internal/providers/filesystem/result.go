package filesystem

import (
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
)

// Success helper
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper
func Failure(message string) (*types.Result, error) {
	return FailureKind(InvalidArgument, message)
}

// FailureKind returns a failed result tagged with kind
func FailureKind(kind ErrorKind, message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg, Kind: string(kind)}, nil
}

// FailureFrom converts an operator error into a failed result
func FailureFrom(err error) (*types.Result, error) {
	return FailureKind(KindOf(err), err.Error())
}

// StringParam returns a non-empty string parameter
func StringParam(params map[string]interface{}, name string) (string, bool) {
	v, ok := params[name].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
