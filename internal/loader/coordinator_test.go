package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func runCmd(t *testing.T, c *Coordinator, slot SlotKey, fetch Fetch) ResultMsg {
	t.Helper()

	cmd := c.Request(slot, fetch)
	require.NotNil(t, cmd)

	msg, ok := cmd().(ResultMsg)
	require.True(t, ok, "command should produce a ResultMsg")
	return msg
}

func TestCoordinator_RequestMarksLoading(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotBranches}

	require.Equal(t, StatusIdle, c.Status(slot))

	c.Request(slot, func(ctx context.Context) (any, error) { return nil, nil })
	require.Equal(t, StatusLoading, c.Status(slot))
	require.True(t, c.Loading())
}

func TestCoordinator_ApplyCurrentResult(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotCommits, Ref: "main"}

	msg := runCmd(t, c, slot, func(ctx context.Context) (any, error) {
		return []string{"abc"}, nil
	})

	require.True(t, c.Apply(msg))
	require.Equal(t, StatusLoaded, c.Status(slot))
	require.NoError(t, c.Err(slot))
	require.Equal(t, []string{"abc"}, msg.Payload)
	require.False(t, c.Loading())
}

func TestCoordinator_ApplyFailure(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotDiff, Ref: "deadbeef"}
	fetchErr := errors.New("object not found")

	msg := runCmd(t, c, slot, func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})

	require.True(t, c.Apply(msg))
	require.Equal(t, StatusFailed, c.Status(slot))
	require.ErrorIs(t, c.Err(slot), fetchErr)
}

// TestCoordinator_StaleResultDiscarded is the core scenario: the user
// requests branch A's commits, then re-requests the slot before A's
// fetch lands. The new fetch queues behind the in-flight one, the late
// result is dropped, and Resume runs the queued fetch at the newer
// generation.
func TestCoordinator_StaleResultDiscarded(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotCommits, Ref: "main"}

	cmdA := c.Request(slot, func(ctx context.Context) (any, error) {
		return "payload A", nil
	})
	require.Nil(t, c.Request(slot, func(ctx context.Context) (any, error) {
		return "payload B", nil
	}), "second request must queue behind the in-flight fetch")

	require.False(t, c.Apply(cmdA().(ResultMsg)), "older generation must be discarded")

	cmdB := c.Resume(slot)
	require.NotNil(t, cmdB)
	msgB := cmdB().(ResultMsg)
	require.True(t, c.Apply(msgB))
	require.Equal(t, "payload B", msgB.Payload)
	require.Equal(t, StatusLoaded, c.Status(slot))
	require.Nil(t, c.Resume(slot))
}

func TestCoordinator_StaleFailureDoesNotClobberStatus(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotCommits, Ref: "main"}

	cmdA := c.Request(slot, func(ctx context.Context) (any, error) {
		return nil, errors.New("timeout")
	})
	require.Nil(t, c.Request(slot, func(ctx context.Context) (any, error) {
		return "fresh", nil
	}))

	require.False(t, c.Apply(cmdA().(ResultMsg)))
	require.True(t, c.Apply(c.Resume(slot)().(ResultMsg)))

	require.Equal(t, StatusLoaded, c.Status(slot))
	require.NoError(t, c.Err(slot))
}

// At most one fetch per slot may run at a time; repeat requests queue
// the fetch instead of dispatching a duplicate subprocess.
func TestCoordinator_SingleFetchInFlight(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotBranches}

	var runs int
	fetch := func(ctx context.Context) (any, error) {
		runs++
		return "branches", nil
	}

	cmd := c.Request(slot, fetch)
	require.NotNil(t, cmd)
	require.Nil(t, c.Request(slot, fetch))
	require.Nil(t, c.Request(slot, fetch))

	require.False(t, c.Apply(cmd().(ResultMsg)))
	require.Equal(t, 1, runs, "only the first request may dispatch while one is in flight")

	resumed := c.Resume(slot)
	require.NotNil(t, resumed)
	require.True(t, c.Apply(resumed().(ResultMsg)))
	require.Equal(t, 2, runs)
	require.Equal(t, StatusLoaded, c.Status(slot))
}

func TestCoordinator_InvalidateDropsQueuedFetch(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotBranches}

	cmd := c.Request(slot, func(ctx context.Context) (any, error) { return "a", nil })
	require.Nil(t, c.Request(slot, func(ctx context.Context) (any, error) { return "b", nil }))

	c.Invalidate(slot)

	require.False(t, c.Apply(cmd().(ResultMsg)))
	require.Nil(t, c.Resume(slot), "invalidation must drop the queued fetch")
}

func TestCoordinator_SlotsAreIndependent(t *testing.T) {
	c := NewCoordinator()
	slotMain := SlotKey{Type: SlotCommits, Ref: "main"}
	slotDev := SlotKey{Type: SlotCommits, Ref: "develop"}

	cmdMain := c.Request(slotMain, func(ctx context.Context) (any, error) {
		return "main log", nil
	})
	// A newer request on a different slot must not invalidate slotMain
	cmdDev := c.Request(slotDev, func(ctx context.Context) (any, error) {
		return "dev log", nil
	})

	require.True(t, c.Apply(cmdDev().(ResultMsg)))
	require.True(t, c.Apply(cmdMain().(ResultMsg)))
	require.Equal(t, StatusLoaded, c.Status(slotMain))
	require.Equal(t, StatusLoaded, c.Status(slotDev))
}

func TestCoordinator_Invalidate(t *testing.T) {
	c := NewCoordinator()
	slot := SlotKey{Type: SlotBranches}

	cmd := c.Request(slot, func(ctx context.Context) (any, error) {
		return "branches", nil
	})

	c.Invalidate(slot)

	require.Equal(t, StatusIdle, c.Status(slot))
	require.False(t, c.Apply(cmd().(ResultMsg)), "in-flight fetch must land stale after invalidation")
}

func TestCoordinator_InvalidateAll(t *testing.T) {
	c := NewCoordinator()
	slots := []SlotKey{
		{Type: SlotBranches},
		{Type: SlotCommits, Ref: "main"},
	}

	var cmds []func() ResultMsg
	for _, slot := range slots {
		cmd := c.Request(slot, func(ctx context.Context) (any, error) { return "x", nil })
		cmds = append(cmds, func() ResultMsg { return cmd().(ResultMsg) })
	}

	c.InvalidateAll()

	for i, slot := range slots {
		require.Equal(t, StatusIdle, c.Status(slot))
		require.False(t, c.Apply(cmds[i]()))
	}
}

func TestCoordinator_TimeoutCancelsContext(t *testing.T) {
	c := NewCoordinator(WithTimeout(10 * time.Millisecond))
	slot := SlotKey{Type: SlotDiff, Ref: "abc"}

	msg := runCmd(t, c, slot, func(ctx context.Context) (any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return "too late", nil
		}
	})

	require.True(t, c.Apply(msg))
	require.Equal(t, StatusFailed, c.Status(slot))
	require.ErrorIs(t, c.Err(slot), context.DeadlineExceeded)
}

func TestSlotKey_String(t *testing.T) {
	require.Equal(t, "branches", SlotKey{Type: SlotBranches}.String())
	require.Equal(t, "commits:main", SlotKey{Type: SlotCommits, Ref: "main"}.String())
	require.Equal(t, "diff:deadbeef", SlotKey{Type: SlotDiff, Ref: "deadbeef"}.String())
}

// TestCoordinator_OnlyNewestGenerationApplies drives random interleavings
// of requests and deliveries for a single slot and checks that at most
// one fetch is ever in flight and that the slot ends up holding the
// payload of the newest request.
func TestCoordinator_OnlyNewestGenerationApplies(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewCoordinator()
		slot := SlotKey{Type: SlotCommits, Ref: "main"}

		var inFlight tea.Cmd
		applied := -1

		deliver := func() {
			if inFlight == nil {
				return
			}
			msg := inFlight().(ResultMsg)
			if c.Apply(msg) {
				applied = msg.Payload.(int)
			}
			inFlight = c.Resume(slot)
		}

		n := rapid.IntRange(1, 6).Draw(t, "requests")
		for i := 0; i < n; i++ {
			payload := i
			cmd := c.Request(slot, func(ctx context.Context) (any, error) {
				return payload, nil
			})
			if cmd != nil {
				if inFlight != nil {
					t.Fatalf("request %d dispatched while another fetch was in flight", i)
				}
				inFlight = cmd
			}
			if rapid.Bool().Draw(t, "deliver") {
				deliver()
			}
		}
		for inFlight != nil {
			deliver()
		}

		if applied != n-1 {
			t.Fatalf("slot holds payload %d, newest request was %d", applied, n-1)
		}
	})
}
