package redis

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmitTaskRunsOnWorker(t *testing.T) {
	rc := NewRedisCache(nil, 2, 10)
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		rc.SubmitTask(wg.Done)
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tasks were not executed")
	}
}

func TestSubmitTaskFallsBackWhenFull(t *testing.T) {
	rc := NewRedisCache(nil, 0, 0)
	ran := false
	rc.SubmitTask(func() { ran = true })
	assert.True(t, ran)
}

func TestWorkerSurvivesPanic(t *testing.T) {
	rc := NewRedisCache(nil, 1, 4)
	rc.SubmitTask(func() { panic("boom") })
	done := make(chan struct{})
	rc.SubmitTask(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not restart after panic")
	}
}
