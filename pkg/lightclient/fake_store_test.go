package lightclient

// memKVStore is a minimal map-backed fake satisfying kvStore, standing in
// for storetypes.KVStore in tests of this package's internal helpers.
type memKVStore struct {
	data map[string][]byte
}

func newMemKVStore() *memKVStore {
	return &memKVStore{data: make(map[string][]byte)}
}

func (m *memKVStore) Get(key []byte) []byte {
	v, ok := m.data[string(key)]
	if !ok {
		return nil
	}
	return v
}

func (m *memKVStore) Has(key []byte) bool {
	_, ok := m.data[string(key)]
	return ok
}

func (m *memKVStore) Set(key, value []byte) {
	m.data[string(key)] = value
}

func (m *memKVStore) Delete(key []byte) {
	delete(m.data, string(key))
}
