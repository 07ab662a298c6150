package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"aiteam-manager/internal/database"
	"aiteam-manager/internal/llm"
)

const activeProviderKey = "activeProvider"

// providerRecord is the stored form of a provider. APIKey holds the
// obfuscated key when IsEncrypted is set.
type providerRecord struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	URL          string      `json:"url"`
	APIKey       string      `json:"apiKey"`
	DefaultModel string      `json:"defaultModel"`
	Models       []llm.Model `json:"models"`
	Enabled      *bool       `json:"enabled"`
	IsEncrypted  bool        `json:"isEncrypted"`
}

func toRecord(p *llm.Provider) providerRecord {
	enabled := p.Enabled
	rec := providerRecord{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		URL:          p.URL,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		Models:       p.Models,
		Enabled:      &enabled,
	}
	if rec.APIKey != "" {
		rec.APIKey = obfuscateKey(rec.APIKey)
		rec.IsEncrypted = true
	}
	return rec
}

// toProvider rebuilds the descriptor. A key that cannot be decoded is
// replaced by "" so the record still loads.
func (rec providerRecord) toProvider() *llm.Provider {
	key := rec.APIKey
	if rec.IsEncrypted && key != "" {
		revealed, err := revealKey(key)
		if err != nil {
			slog.Warn("Could not decode stored API key; loading provider without it", "provider_id", rec.ID, "error", err)
			revealed = ""
		}
		key = revealed
	}
	return llm.NewProvider(llm.ProviderConfig{
		ID:           rec.ID,
		Name:         rec.Name,
		Type:         rec.Type,
		URL:          rec.URL,
		APIKey:       key,
		DefaultModel: rec.DefaultModel,
		Models:       rec.Models,
		Enabled:      rec.Enabled,
	})
}

// ProviderStore keeps provider descriptors in the providers table of the
// database shared with ChatStore.
type ProviderStore struct {
	handle *database.Handle
}

func NewProviderStore(handle *database.Handle) *ProviderStore {
	return &ProviderStore{handle: handle}
}

func (s *ProviderStore) Init(ctx context.Context) error {
	_, err := s.ensureDB(ctx)
	return err
}

func (s *ProviderStore) ensureDB(ctx context.Context) (*sql.DB, error) {
	db, err := s.handle.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not open provider store: %w", err)
	}
	return db, nil
}

func (s *ProviderStore) Close() error {
	return s.handle.Close()
}

// GetProvider returns the provider with id, or nil when it is not stored.
func (s *ProviderStore) GetProvider(ctx context.Context, id string) (*llm.Provider, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	var data string
	err = db.QueryRowContext(ctx, "SELECT data FROM providers WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, logged("getProvider", fmt.Errorf("could not read provider %s: %w", id, err))
	}
	p, err := decodeProvider(data)
	if err != nil {
		return nil, logged("getProvider", err)
	}
	return p, nil
}

func (s *ProviderStore) GetAllProviders(ctx context.Context) ([]*llm.Provider, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	providers, err := queryProviders(ctx, db, "SELECT data FROM providers ORDER BY rowid")
	return providers, logged("getAllProviders", err)
}

func (s *ProviderStore) GetEnabledProviders(ctx context.Context) ([]*llm.Provider, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	providers, err := queryProviders(ctx, db, "SELECT data FROM providers WHERE enabled = 1 ORDER BY rowid")
	return providers, logged("getEnabledProviders", err)
}

func queryProviders(ctx context.Context, db *sql.DB, query string) ([]*llm.Provider, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query providers: %w", err)
	}
	defer rows.Close()

	providers := []*llm.Provider{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("could not scan provider: %w", err)
		}
		p, err := decodeProvider(data)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate providers: %w", err)
	}
	return providers, nil
}

func decodeProvider(data string) (*llm.Provider, error) {
	var rec providerRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("could not decode provider: %w", err)
	}
	return rec.toProvider(), nil
}

// SaveProvider stores p with its key obfuscated.
func (s *ProviderStore) SaveProvider(ctx context.Context, p *llm.Provider) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	rec := toRecord(p)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("could not encode provider %s: %w", p.ID, err)
	}
	query := `
		INSERT INTO providers (id, type, enabled, is_encrypted, data) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			enabled = excluded.enabled,
			is_encrypted = excluded.is_encrypted,
			data = excluded.data
	`
	if _, err := db.ExecContext(ctx, query, rec.ID, rec.Type, p.Enabled, rec.IsEncrypted, string(data)); err != nil {
		return logged("saveProvider", fmt.Errorf("could not save provider %s: %w", p.ID, err))
	}
	return nil
}

// DeleteProvider removes id. Unknown ids are not an error.
func (s *ProviderStore) DeleteProvider(ctx context.Context, id string) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM providers WHERE id = ?", id); err != nil {
		return logged("deleteProvider", fmt.Errorf("could not delete provider %s: %w", id, err))
	}
	return nil
}

// SaveProviderDefaultModel changes the default model of a stored provider.
// It does nothing when the provider is absent.
func (s *ProviderStore) SaveProviderDefaultModel(ctx context.Context, providerID, modelID string) error {
	p, err := s.GetProvider(ctx, providerID)
	if err != nil || p == nil {
		return err
	}
	p.DefaultModel = modelID
	return s.SaveProvider(ctx, p)
}

// SaveActiveProvider records the active provider; "" clears it.
func (s *ProviderStore) SaveActiveProvider(ctx context.Context, id string) error {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return err
	}
	return logged("saveActiveProvider", saveSetting(ctx, db, settingsTable, activeProviderKey, id))
}

func (s *ProviderStore) GetActiveProviderID(ctx context.Context) (string, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return "", err
	}
	id, err := lookupSetting(ctx, db, settingsTable, activeProviderKey)
	return id, logged("getActiveProvider", err)
}

// GetActiveProvider returns the active provider, or nil when none is set or
// the stored id no longer names a provider.
func (s *ProviderStore) GetActiveProvider(ctx context.Context) (*llm.Provider, error) {
	id, err := s.GetActiveProviderID(ctx)
	if err != nil || id == "" {
		return nil, err
	}
	return s.GetProvider(ctx, id)
}

// InitializeDefaultProviders returns the stored providers. Nothing is
// seeded; providers are only ever added by the user.
func (s *ProviderStore) InitializeDefaultProviders(ctx context.Context) ([]*llm.Provider, error) {
	return s.GetAllProviders(ctx)
}

var _ ProviderRepository = (*ProviderStore)(nil)
