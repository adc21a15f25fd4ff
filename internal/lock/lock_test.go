/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const reconcileKey = "onboard:documents:reconcile"

func TestLocker_Lock_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectSetNX(reconcileKey, "worker-1", 5*time.Second).SetVal(true)

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.NoError(t, err)
	assert.Equal(t, reconcileKey, locker.Key())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_Lock_Held(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectSetNX(reconcileKey, "worker-1", 5*time.Second).SetVal(false)

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.EqualError(t, err, "lock for key onboard:documents:reconcile is already held")
	assert.IsType(t, ErrLockHeld{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_Lock_RedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectSetNX(reconcileKey, "worker-1", 5*time.Second).SetErr(errors.New("connection refused"))

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.EqualError(t, err, "connection refused")
}

func TestLocker_Unlock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectEval(unlockScript, []string{reconcileKey}, "worker-1").SetVal(int64(1))
	assert.NoError(t, locker.Unlock(context.Background()))

	mock.ExpectEval(unlockScript, []string{reconcileKey}, "worker-1").SetVal(int64(0))
	err := locker.Unlock(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unlock failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_ExtendLock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectEval(extendScript, []string{reconcileKey}, "worker-1", "10000").SetVal(int64(1))
	assert.NoError(t, locker.ExtendLock(context.Background(), 10*time.Second))

	mock.ExpectEval(extendScript, []string{reconcileKey}, "worker-1", "10000").SetVal(int64(0))
	assert.Error(t, locker.ExtendLock(context.Background(), 10*time.Second))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_WaitLock_StopsOnRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectSetNX(reconcileKey, "worker-1", time.Second).SetErr(errors.New("boom"))

	err := locker.WaitLock(context.Background(), time.Second, time.Second)
	assert.EqualError(t, err, "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_WaitLock_AcquiresAfterRetry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, reconcileKey, "worker-1")

	mock.ExpectSetNX(reconcileKey, "worker-1", time.Second).SetVal(false)
	mock.ExpectSetNX(reconcileKey, "worker-1", time.Second).SetVal(true)

	err := locker.WaitLock(context.Background(), time.Second, 2*time.Second)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
