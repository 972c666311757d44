package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// NewStore returns a Store backed entirely by process memory.
func NewStore() *repositories.Store {
	accounts := NewAccounts()
	return &repositories.Store{
		Users:        accounts,
		Ledger:       accounts,
		Boxes:        NewBoxes(),
		Settlements:  NewSettlements(),
		Transactions: NewTransactions(),
		Chat:         NewChat(),
		Settings:     NewSettings(),
	}
}

// Boxes is an in-memory BoxRepository.
type Boxes struct {
	mu    sync.RWMutex
	boxes map[string]*models.BoxDocument
	seq   map[string]int
	next  int
}

var _ repositories.BoxRepository = (*Boxes)(nil)

// NewBoxes returns an empty box store.
func NewBoxes() *Boxes {
	return &Boxes{boxes: map[string]*models.BoxDocument{}, seq: map[string]int{}}
}

func cloneBox(b *models.BoxDocument) *models.BoxDocument {
	c := *b
	c.Rewards = append([]models.RewardDocument(nil), b.Rewards...)
	return &c
}

// Create inserts a box.
func (s *Boxes) Create(_ context.Context, box *models.BoxDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boxes[box.ID]; ok {
		return fmt.Errorf("%w: box %s", repositories.ErrDuplicate, box.ID)
	}
	now := time.Now().UTC()
	box.CreatedAt = now
	box.UpdatedAt = now
	s.boxes[box.ID] = cloneBox(box)
	s.seq[box.ID] = s.next
	s.next++
	return nil
}

// FindByID finds a box by id.
func (s *Boxes) FindByID(_ context.Context, id string) (*models.BoxDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boxes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneBox(b), nil
}

// FindAll returns every box in creation order.
func (s *Boxes) FindAll(_ context.Context) ([]*models.BoxDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.BoxDocument, 0, len(s.boxes))
	for _, b := range s.boxes {
		out = append(out, cloneBox(b))
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].ID] < s.seq[out[j].ID] })
	return out, nil
}

// Update replaces a box, keeping its creation time.
func (s *Boxes) Update(_ context.Context, box *models.BoxDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.boxes[box.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	box.CreatedAt = old.CreatedAt
	box.UpdatedAt = time.Now().UTC()
	s.boxes[box.ID] = cloneBox(box)
	return nil
}

// Delete removes a box.
func (s *Boxes) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boxes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.boxes, id)
	delete(s.seq, id)
	return nil
}

// Count counts all boxes.
func (s *Boxes) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.boxes)), nil
}

// Settlements is an in-memory SettlementRepository.
type Settlements struct {
	mu    sync.RWMutex
	items []*models.Settlement
}

var _ repositories.SettlementRepository = (*Settlements)(nil)

// NewSettlements returns an empty settlement store.
func NewSettlements() *Settlements { return &Settlements{} }

// Create appends a settlement.
func (s *Settlements) Create(_ context.Context, st *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID.IsZero() {
		st.ID = primitive.NewObjectID()
	}
	c := *st
	s.items = append(s.items, &c)
	return nil
}

// FindByUserID returns a page of a user's settlements, newest first.
func (s *Settlements) FindByUserID(_ context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mine []*models.Settlement
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UserID == userID {
			c := *s.items[i]
			mine = append(mine, &c)
		}
	}
	return paginate(mine, page, limit), nil
}

// CountByUserID counts a user's settlements.
func (s *Settlements) CountByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, st := range s.items {
		if st.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Transactions is an in-memory TransactionRepository.
type Transactions struct {
	mu    sync.RWMutex
	items []*models.Transaction
}

var _ repositories.TransactionRepository = (*Transactions)(nil)

// NewTransactions returns an empty transaction store.
func NewTransactions() *Transactions { return &Transactions{} }

// Create appends a transaction.
func (s *Transactions) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	c := *tx
	s.items = append(s.items, &c)
	return nil
}

// FindByUserID returns a page of a user's transactions, newest first.
func (s *Transactions) FindByUserID(_ context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mine []*models.Transaction
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UserID == userID {
			c := *s.items[i]
			mine = append(mine, &c)
		}
	}
	return paginate(mine, page, limit), nil
}

// CountByUserID counts a user's transactions.
func (s *Transactions) CountByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, tx := range s.items {
		if tx.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Chat is an in-memory ChatRepository.
type Chat struct {
	mu   sync.RWMutex
	msgs []*models.ChatMessage
}

var _ repositories.ChatRepository = (*Chat)(nil)

// NewChat returns an empty chat store.
func NewChat() *Chat { return &Chat{} }

// Create appends a message.
func (s *Chat) Create(_ context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	c := *msg
	s.msgs = append(s.msgs, &c)
	return nil
}

// FindRecent returns up to limit messages, newest first.
func (s *Chat) FindRecent(_ context.Context, limit int) ([]*models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.ChatMessage{}
	for i := len(s.msgs) - 1; i >= 0 && (limit < 1 || len(out) < limit); i-- {
		c := *s.msgs[i]
		out = append(out, &c)
	}
	return out, nil
}

// Settings is an in-memory SystemSettingsRepository.
type Settings struct {
	mu       sync.RWMutex
	settings *models.SystemSettings
}

var _ repositories.SystemSettingsRepository = (*Settings)(nil)

// NewSettings returns a store with no saved settings.
func NewSettings() *Settings { return &Settings{} }

// GetSettings returns the saved settings or ErrNotFound.
func (s *Settings) GetSettings(_ context.Context) (*models.SystemSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, repositories.ErrNotFound
	}
	c := *s.settings
	c.DepositPresets = append(c.DepositPresets[:0:0], s.settings.DepositPresets...)
	return &c, nil
}

// UpdateSettings saves settings.
func (s *Settings) UpdateSettings(_ context.Context, settings *models.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now().UTC()
	c := *settings
	c.DepositPresets = append(c.DepositPresets[:0:0], settings.DepositPresets...)
	s.settings = &c
	return nil
}
