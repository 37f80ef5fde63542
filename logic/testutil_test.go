package logic

import (
	"errors"
	"time"
)

// fakeStore 内存实现的 CacheStore，记录删除过的 key 供断言
type fakeStore struct {
	data     map[string]string
	delKeys  []string
	prefixes []string

	getErr error
	setErr error
	delErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Set(key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	s, ok := value.(string)
	if !ok {
		return errors.New("fakeStore: value must be string")
	}
	f.data[key] = s
	return nil
}

func (f *fakeStore) Del(keys ...string) error {
	f.delKeys = append(f.delKeys, keys...)
	if f.delErr != nil {
		return f.delErr
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) DelByPrefix(prefix string) error {
	f.prefixes = append(f.prefixes, prefix)
	if f.delErr != nil {
		return f.delErr
	}
	for k := range f.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(f.data, k)
		}
	}
	return nil
}

func (f *fakeStore) deleted(key string) bool {
	for _, k := range f.delKeys {
		if k == key {
			return true
		}
	}
	return false
}
