package testtypes

import (
	"sync/atomic"

	"github.com/sectrean/component-kit"
)

type Storage interface {
	Name() string
}

type DefaultStorage struct{}

func NewDefaultStorage() *DefaultStorage { return &DefaultStorage{} }
func (*DefaultStorage) Name() string { return "default-storage" }

type FastStorage struct{}

func NewFastStorage() *FastStorage { return &FastStorage{} }
func (*FastStorage) Name() string { return "fast-storage" }

type SlowStorage struct{}

func NewSlowStorage() *SlowStorage { return &SlowStorage{} }
func (*SlowStorage) Name() string { return "slow-storage" }

// LazyStorage is the lazy proxy for [Storage].
type LazyStorage struct {
	L *di.Lazy[Storage]
}

func NewLazyStorage(l *di.Lazy[Storage]) Storage {
	return LazyStorage{L: l}
}

// Name returns "" when the dependency is optional and absent.
func (s LazyStorage) Name() string {
	st := s.L.MustGet()
	if st == nil {
		return ""
	}
	return st.Name()
}

// Counter counts how many instances of a component were created.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Inc() int64 {
	return c.n.Add(1)
}

func (c *Counter) Count() int64 {
	return c.n.Load()
}

// TempObject is a per-request component carrying a sequence number.
type TempObject struct {
	Seq int64
}

// NewTempObjectFunc returns a constructor numbering instances with counter.
func NewTempObjectFunc(counter *Counter) func() *TempObject {
	return func() *TempObject {
		return &TempObject{Seq: counter.Inc()}
	}
}

// StorageUser depends on a Storage and records its initialization.
type StorageUser struct {
	Storage     Storage
	Initialized int
	SawStorage  bool
}

func NewStorageUser(s Storage) *StorageUser {
	return &StorageUser{Storage: s}
}

func (u *StorageUser) Init() error {
	u.Initialized++
	u.SawStorage = u.Storage != nil
	return nil
}
