package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"tradesim/internal/config"
)

// Store - реестр учётных сессий по инструментам.
//
// Ключ инструмента - "Биржа-Символ". Режим каждой сессии определяется из
// конфигурации один раз при создании; дальше ни реестр, ни вызывающие
// режим не инспектируют.
//
// Реестр не синхронизирован: наполнение выполняется при старте, чтение -
// из воркеров по разным ключам. Общий контракт ядра (сериализация событий
// в пределах инструмента) распространяется и на реестр.
type Store struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions map[string]*Session
}

// Key строит ключ инструмента из биржи и символа
func Key(exchange, symbol string) string {
	return exchange + "-" + symbol
}

// NewStore создаёт реестр и сессии для всех инструментов из таблицы
// режимов конфигурации
func NewStore(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		cfg:      cfg,
		log:      logger,
		sessions: make(map[string]*Session, len(cfg.Positions.Instruments)),
	}

	for instrument := range cfg.Positions.Instruments {
		if _, err := s.Open(instrument); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Open возвращает сессию инструмента, создавая её при первом обращении.
// Режим берётся из конфигурации (таблица либо режим по умолчанию).
func (s *Store) Open(instrument string) (*Session, error) {
	if session, ok := s.sessions[instrument]; ok {
		return session, nil
	}

	mode := s.cfg.ModeFor(instrument)
	session, err := NewSession(instrument, mode, s.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	s.sessions[instrument] = session
	s.log.Info("session opened",
		zap.String("instrument", instrument),
		zap.String("mode", string(mode)),
	)
	return session, nil
}

// Session возвращает сессию инструмента, если она создана
func (s *Store) Session(instrument string) (*Session, bool) {
	session, ok := s.sessions[instrument]
	return session, ok
}

// Instruments возвращает отсортированный список ключей инструментов
func (s *Store) Instruments() []string {
	keys := make([]string, 0, len(s.sessions))
	for k := range s.sessions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CountOpenPositions возвращает количество инструментов с открытой
// позицией (в hedge режиме инструмент считается открытым, если открыта
// хотя бы одна суб-позиция)
func (s *Store) CountOpenPositions() int {
	count := 0
	for _, session := range s.sessions {
		if session.HasOpen() {
			count++
		}
	}
	return count
}
