package errors

import "github.com/pkg/errors"

func WrappedErrNewLogger(err error) error {
	return errors.WithMessage(err, "new logger")
}

func WrappedErrListProcesses(err error) error {
	return errors.WithMessage(err, "get live process list")
}

func WrappedErrResolveCurrentUser(err error) error {
	return errors.WithMessage(err, "resolve current user")
}

func WrappedErrWriteSnapshotLog(err error) error {
	return errors.WithMessage(err, "write snapshot log")
}

func WrappedErrRenderReport(err error) error {
	return errors.WithMessage(err, "render process report")
}

func WrappedErrCollectSnapshot(err error) error {
	return errors.WithMessage(err, "collect process snapshot")
}
