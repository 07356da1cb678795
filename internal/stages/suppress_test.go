package stages

import (
	"context"
	"os"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	psUtil "github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/procsnap/agent/internal/errkind"
	"github.com/procsnap/agent/internal/snapshot"
)

func staticSource(snap snapshot.Snapshot, err error) Source {
	return func(context.Context) (snapshot.Snapshot, error) {
		return snap, err
	}
}

func TestSuppressErrorsPassesThroughSuccess(t *testing.T) {
	snap := snapshot.Snapshot{{Pid: 1, Name: "init"}}
	source := SuppressErrors(staticSource(snap, nil), errkind.DefaultSuppressSet(), zaptest.NewLogger(t))

	got, err := source(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestSuppressErrorsSwallowsConfiguredKinds(t *testing.T) {
	for name, sourceErr := range map[string]error{
		"permission denied": os.ErrPermission,
		"no such process":   psUtil.ErrorProcessNotRunning,
		"wrapped":           errors.WithMessage(psUtil.ErrorProcessNotRunning, "read process '42'"),
	} {
		source := SuppressErrors(staticSource(nil, sourceErr), errkind.DefaultSuppressSet(), zaptest.NewLogger(t))

		got, err := source(context.Background())
		require.NoError(t, err, name)
		assert.NotNil(t, got, name)
		assert.Len(t, got, 0, name)
	}
}

func TestSuppressErrorsSwallowsAllRecoverableMultierror(t *testing.T) {
	// A locked-down environment can fail every per-process read; the
	// accumulated multierror is recoverable when all its members are.
	var errs error
	errs = multierror.Append(errs, errors.WithMessage(os.ErrPermission, "read process '1'"))
	errs = multierror.Append(errs, errors.WithMessage(os.ErrPermission, "read process '2'"))

	source := SuppressErrors(staticSource(nil, errs), errkind.DefaultSuppressSet(), zaptest.NewLogger(t))

	got, err := source(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)
}

func TestSuppressErrorsSwallowsMixedRecoverableMultierror(t *testing.T) {
	var errs error
	errs = multierror.Append(errs, errors.WithMessage(os.ErrPermission, "read process '1'"))
	errs = multierror.Append(errs, errors.WithMessage(psUtil.ErrorProcessNotRunning, "read process '2'"))

	source := SuppressErrors(staticSource(nil, errs), errkind.DefaultSuppressSet(), zaptest.NewLogger(t))

	got, err := source(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestSuppressErrorsPropagatesMultierrorWithUnclassifiedMember(t *testing.T) {
	var errs error
	errs = multierror.Append(errs, errors.WithMessage(os.ErrPermission, "read process '1'"))
	errs = multierror.Append(errs, errors.New("disk on fire"))

	source := SuppressErrors(staticSource(nil, errs), errkind.DefaultSuppressSet(), zaptest.NewLogger(t))

	_, err := source(context.Background())
	require.Error(t, err)
	assert.Equal(t, errs, err)
}

func TestSuppressErrorsPropagatesOtherKinds(t *testing.T) {
	sourceErr := errors.New("disk on fire")
	source := SuppressErrors(staticSource(nil, sourceErr), errkind.DefaultSuppressSet(), zaptest.NewLogger(t))

	_, err := source(context.Background())
	require.Error(t, err)
	assert.Equal(t, sourceErr, err)
}

func TestSuppressErrorsRespectsInjectedSet(t *testing.T) {
	// Zombie is outside the default set but suppressed once configured.
	defaultSet := SuppressErrors(staticSource(nil, errkind.ErrZombieProcess), errkind.DefaultSuppressSet(),
		zaptest.NewLogger(t))
	_, err := defaultSet(context.Background())
	require.Error(t, err)

	withZombie := SuppressErrors(staticSource(nil, errkind.ErrZombieProcess),
		errkind.NewSet(errkind.Zombie), zaptest.NewLogger(t))
	got, err := withZombie(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 0)
}
