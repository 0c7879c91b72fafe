package service

import (
	"sync"

	"github.com/okanodev/kaitori-pos/internal/domain/entity"
)

// TransactionStore holds the in-memory register sessions, one editing
// transaction per session id. All access goes through the store mutex, so
// concurrent requests against the same session are serialized and every
// operation commits either a whole new snapshot or nothing.
type TransactionStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.Transaction
}

// NewTransactionStore creates an empty session store
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		sessions: make(map[string]*entity.Transaction),
	}
}

// Get returns the transaction for a session, or nil when none exists
func (st *TransactionStore) Get(sessionID string) *entity.Transaction {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[sessionID]
}

// Put replaces the transaction for a session
func (st *TransactionStore) Put(sessionID string, tx *entity.Transaction) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sessionID] = tx
}

// Update applies fn to the session's transaction (creating an empty one on
// first use) and commits the returned snapshot. When fn returns an error the
// stored snapshot is left as it was; the error is passed through so the
// caller can surface an advisory such as a quota rejection.
func (st *TransactionStore) Update(sessionID string, fn func(tx *entity.Transaction) (*entity.Transaction, error)) (*entity.Transaction, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	tx, ok := st.sessions[sessionID]
	if !ok {
		tx = entity.NewTransaction()
	}

	next, err := fn(tx)
	if err != nil {
		st.sessions[sessionID] = tx
		return tx, err
	}

	st.sessions[sessionID] = next
	return next, nil
}

// Delete drops a session (transaction finalized or abandoned)
func (st *TransactionStore) Delete(sessionID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionID)
}
