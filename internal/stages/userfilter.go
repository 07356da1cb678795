package stages

import (
	"os/user"

	"go.uber.org/zap"

	internalErrors "github.com/procsnap/agent/internal/errors"
	"github.com/procsnap/agent/internal/snapshot"
)

// UserFilter keeps only processes owned by a single user, resolved once at
// construction. Records without a username never match.
type UserFilter struct {
	logger   *zap.Logger
	username string
}

func NewUserFilter(rootLogger *zap.Logger) (*UserFilter, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, internalErrors.WrappedErrResolveCurrentUser(err)
	}
	return NewUserFilterForUser(rootLogger, currentUser.Username), nil
}

func NewUserFilterForUser(rootLogger *zap.Logger, username string) *UserFilter {
	return &UserFilter{
		logger:   rootLogger.Named("user-filter"),
		username: username,
	}
}

func (f *UserFilter) Name() string {
	return "user-filter"
}

func (f *UserFilter) Apply(snap snapshot.Snapshot) (snapshot.Snapshot, error) {
	filtered := make(snapshot.Snapshot, 0, len(snap))

	for _, record := range snap {
		if record.Username.Valid && record.Username.String == f.username {
			filtered = append(filtered, record)
		}
	}

	f.logger.Debug("Filtered processes by user",
		zap.String("username", f.username),
		zap.Int("kept", len(filtered)),
		zap.Int("dropped", len(snap)-len(filtered)))
	return filtered, nil
}
