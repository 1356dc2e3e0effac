package future

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/rppcore/rpp/pool"
	"github.com/rppcore/rpp/rtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThen_ChainsValueAcrossTypes(t *testing.T) {
	p := pool.New()
	pr, fut := New[int]("")
	pr.SetValue(21)

	doubled := Then(fut, p, func(v int) (string, error) {
		return "", nil
	})
	_, err := doubled.Get()
	require.NoError(t, err)

	mapped := Then(fut, p, func(v int) (int, error) { return v * 2, nil })
	v, err := mapped.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestThen_PanicInHandlerRejectsChild(t *testing.T) {
	p := pool.New()
	pr, fut := New[int]("")
	pr.SetValue(1)

	child := Then(fut, p, func(v int) (int, error) { panic("nope") })
	_, err := child.Get()
	require.Error(t, err)
	var pe *PanicError
	require.True(t, errors.As(err, &pe))
}

func TestThen_ErrorHandlerRecoversTypedException(t *testing.T) {
	p := pool.New()
	sentinel := errors.New("not found")
	pr, fut := New[int]("")
	pr.SetError(sentinel)

	recovered := Then(fut, p, func(v int) (int, error) { return v, nil },
		ErrorHandler[int](func(err error) (int, bool) {
			if errors.Is(err, sentinel) {
				return -1, true
			}
			return 0, false
		}),
	)
	v, err := recovered.Get()
	require.NoError(t, err)
	assert.Equal(t, -1, v)
}

func TestThen_UnhandledErrorPropagates(t *testing.T) {
	p := pool.New()
	sentinel := errors.New("boom")
	pr, fut := New[int]("")
	pr.SetError(sentinel)

	child := Then(fut, p, func(v int) (int, error) { return v, nil })
	_, err := child.Get()
	assert.ErrorIs(t, err, sentinel)
}

// TestThen_ReleasesStageResourceBeforeNextStageRuns proves that in
// f.then(g).then(h), whatever g's closure captured is eligible for garbage
// collection before h observes g's result — the destructor-before-
// next-stage property, applied across a two-stage chain.
func TestThen_ReleasesStageResourceBeforeNextStageRuns(t *testing.T) {
	p := pool.New()
	pr, fut := New[int]("")
	pr.SetValue(1)

	type heavy struct{ data [1024 * 1024]byte }
	reclaimed := make(chan struct{})

	middle := func() Future[int] {
		resource := &heavy{}
		runtime.SetFinalizer(resource, func(*heavy) { close(reclaimed) })
		return Then(fut, p, func(v int) (int, error) {
			_ = resource.data[0]
			return v + 1, nil
		})
	}()

	next := Then(middle, p, func(v int) (int, error) {
		runtime.GC()
		runtime.GC()
		select {
		case <-reclaimed:
			return v * 10, nil
		case <-time.After(time.Second):
			return 0, errors.New("stage resource was not released before the next stage ran")
		}
	})

	v, err := next.Get()
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	runtime.GC()
	runtime.GC()

	select {
	case <-reclaimed:
	case <-time.After(time.Second):
		t.Fatal("stage resource was not released before the chain completed")
	}
}

func TestThenFuture_WaitsOnBothInOrder(t *testing.T) {
	pr1, f1 := New[int]("")
	pr2, f2 := New[string]("")
	pr1.SetValue(1)
	pr2.SetValue("second")

	combined := ThenFuture(f1, f2)
	v, err := combined.Get()
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestContinueWith_RunsAfterSettlement(t *testing.T) {
	p := pool.New()
	pr, fut := New[int]("")
	pr.SetValue(5)

	done := make(chan int, 1)
	ContinueWith(fut, p, func(v int, err error) { done <- v })
	assert.Equal(t, 5, <-done)
}

func TestDetach_ObservesWithoutPanicOnAbandon(t *testing.T) {
	p := pool.New()
	pr, fut := New[int]("")
	Detach(p, fut)
	pr.SetValue(1)
	p.Submit(func() {}).Wait() // drain, giving Detach's task a chance to run
}

func TestMakeReadyAndExceptionalFuture(t *testing.T) {
	ready := MakeReadyFuture(10)
	v, err := ready.Get()
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	boom := errors.New("boom")
	exceptional := MakeExceptionalFuture[int](boom)
	_, err = exceptional.Get()
	assert.ErrorIs(t, err, boom)
}

func TestWaitAllAndGetAll(t *testing.T) {
	var futs []Future[int]
	var proms []Promise[int]
	for i := 0; i < 3; i++ {
		pr, f := New[int]("")
		proms = append(proms, pr)
		futs = append(futs, f)
	}
	for i, pr := range proms {
		pr.SetValue(i)
	}
	WaitAll(futs)
	values, errs := GetAll(futs)
	assert.Equal(t, []int{0, 1, 2}, values)
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestRunTasks_FansOutAndCollects(t *testing.T) {
	p := pool.New()
	items := []int{1, 2, 3, 4}
	futs := RunTasks(p, items, func(i int) (int, error) {
		if i == 3 {
			return 0, errors.New("unlucky")
		}
		return i * i, nil
	})
	values, errs := GetAll(futs)
	assert.Equal(t, []int{1, 4, 0, 16}, values)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[2])
}

func TestSubmitAwaiterAndSleepAwaiter(t *testing.T) {
	p := pool.New()
	var ran bool
	f := SubmitAwaiter(p, func() { ran = true })
	f.Wait()
	assert.True(t, ran)

	start := rtime.Now()
	s := SleepAwaiter(p, 20*rtime.Millisecond)
	s.Wait()
	assert.True(t, start.Elapsed() >= 20*rtime.Millisecond)
}
