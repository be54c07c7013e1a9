package dynamodb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "bookshelf-backend/pkg/errors"
)

// fakeStore is an in-memory Store used by the repository tests. It
// mirrors the key-value contract: absence reads as nil, conditional
// puts conflict, queries are sort-key ascending.
type fakeStore struct {
	mu    sync.Mutex
	items map[string]Item
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]Item)}
}

func storageKey(pk, sk string) string {
	return pk + "\x00" + sk
}

func stringAttr(item Item, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeStore) Get(ctx context.Context, pk, sk string, consistent bool) (Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[storageKey(pk, sk)]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (f *fakeStore) Put(ctx context.Context, item Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[storageKey(stringAttr(item, attrPK), stringAttr(item, attrSK))] = cloneItem(item)
	return nil
}

func (f *fakeStore) PutIfAbsent(ctx context.Context, item Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := storageKey(stringAttr(item, attrPK), stringAttr(item, attrSK))
	if _, ok := f.items[key]; ok {
		return apperrors.NewConflictError("item already exists")
	}
	f.items[key] = cloneItem(item)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, pk, sk string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, storageKey(pk, sk))
	return nil
}

func (f *fakeStore) Query(ctx context.Context, pk, skPrefix string, limit int32) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []Item
	for _, item := range f.items {
		if stringAttr(item, attrPK) != pk {
			continue
		}
		if skPrefix != "" && !strings.HasPrefix(stringAttr(item, attrSK), skPrefix) {
			continue
		}
		matched = append(matched, cloneItem(item))
	}
	sort.Slice(matched, func(i, j int) bool {
		return stringAttr(matched[i], attrSK) < stringAttr(matched[j], attrSK)
	})
	if limit > 0 && int32(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeStore) Scan(ctx context.Context, filter ScanFilter) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []Item
	for _, item := range f.items {
		pk := stringAttr(item, attrPK)
		sk := stringAttr(item, attrSK)
		if filter.PKEquals != "" && pk != filter.PKEquals {
			continue
		}
		if filter.PKPrefix != "" && !strings.HasPrefix(pk, filter.PKPrefix) {
			continue
		}
		if filter.SKContains != "" && !strings.Contains(sk, filter.SKContains) {
			continue
		}
		matched = append(matched, cloneItem(item))
	}
	return matched, nil
}

func cloneItem(item Item) Item {
	clone := make(Item, len(item))
	for k, v := range item {
		clone[k] = v
	}
	return clone
}
