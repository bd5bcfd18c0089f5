package balancer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/ctxsched/model"
)

func TestService_PickSync(t *testing.T) {
	testCases := []struct {
		description string
		slice       int
		picks       int
		expected    []Side
	}{
		{
			description: "default slice",
			slice:       5,
			picks:       6,
			expected:    []Side{Hardware, Software, Software, Software, Software, Hardware},
		},
		{
			description: "slice of two alternates",
			slice:       2,
			picks:       4,
			expected:    []Side{Hardware, Software, Hardware, Software},
		},
		{
			description: "slice of one is always hardware",
			slice:       1,
			picks:       3,
			expected:    []Side{Hardware, Hardware, Hardware},
		},
	}
	for _, testCase := range testCases {
		srv := New(Config{SwitchSlice: testCase.slice})
		var actual []Side
		for i := 0; i < testCase.picks; i++ {
			actual = append(actual, srv.PickSync())
		}
		assert.Equal(t, testCase.expected, actual, testCase.description)
	}
}

func TestService_PickAsync(t *testing.T) {
	srv := New(DefaultConfig())
	assert.Equal(t, Hardware, srv.PickAsync(), "tie favors hardware")
	assert.Equal(t, Software, srv.PickAsync())
	assert.Equal(t, Hardware, srv.PickAsync())
	assert.Equal(t, Software, srv.PickAsync())

	srv.Complete(Software, 2)
	stats := srv.Stats()
	assert.EqualValues(t, 2, stats.HardwareOutstanding)
	assert.EqualValues(t, 0, stats.SoftwareOutstanding)
	assert.Equal(t, Software, srv.PickAsync())
	assert.Equal(t, Software, srv.PickAsync())
	assert.Equal(t, Hardware, srv.PickAsync())
}

func TestService_Complete(t *testing.T) {
	srv := New(DefaultConfig())
	srv.PickAsync()
	srv.Complete(Hardware, 5)
	assert.EqualValues(t, 0, srv.Stats().HardwareOutstanding)
	srv.Complete(Side(7), 1)
	srv.Complete(Software, 0)
	assert.Equal(t, Stats{HardwareDispatched: 1}, srv.Stats())
}

func TestService_Concurrent(t *testing.T) {
	srv := New(DefaultConfig())
	const workers, picks = 8, 250
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < picks; i++ {
				srv.PickSync()
			}
		}()
	}
	wg.Wait()
	stats := srv.Stats()
	assert.EqualValues(t, workers*picks/5, stats.HardwareDispatched)
	assert.EqualValues(t, workers*picks*4/5, stats.SoftwareDispatched)
}

func TestSideOf(t *testing.T) {
	assert.Equal(t, Hardware, SideOf(model.PathHardware))
	assert.Equal(t, Software, SideOf(model.PathCryptoEngine))
	assert.Equal(t, Software, SideOf(model.PathVectorEngine))
	assert.Equal(t, Software, SideOf(model.PathSoftware))
	assert.Equal(t, "hardware", Hardware.String())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{}.Validate(), model.ErrInvalidArgument)
}
