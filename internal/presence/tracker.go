package presence

import (
	"sync"
	"time"
)

// Info — срез данных активного пользователя для дашборда.
type Info struct {
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	TelegramID     string    `json:"telegram_id,omitempty"`
	LastActiveTime time.Time `json:"last_active_time"`
}

// Tracker — процесс-локальная карта присутствия. Best-effort кэш: теряется
// при рестарте, источником истины не является. Записи протухают через ttl;
// чистка — одной горутиной по интервалу, без таймера на запись.
type Tracker struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]Info

	stop     chan struct{}
	stopOnce sync.Once
}

const (
	DefaultTTL           = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

func NewTracker(ttl, sweepInterval time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	t := &Tracker{
		ttl:     ttl,
		entries: make(map[int64]Info),
		stop:    make(chan struct{}),
	}
	go t.sweepLoop(sweepInterval)
	return t
}

func (t *Tracker) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.sweep(time.Now())
		case <-t.stop:
			return
		}
	}
}

func (t *Tracker) sweep(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, info := range t.entries {
		if now.Sub(info.LastActiveTime) > t.ttl {
			delete(t.entries, id)
		}
	}
}

func (t *Tracker) Touch(info Info) {
	info.LastActiveTime = time.Now()
	t.mu.Lock()
	t.entries[info.UserID] = info
	t.mu.Unlock()
}

func (t *Tracker) fresh(info Info, now time.Time) bool {
	return now.Sub(info.LastActiveTime) <= t.ttl
}

// Active — снимок живых записей; протухшие не отдаём, даже если чистка по
// интервалу до них ещё не дошла.
func (t *Tracker) Active() []Info {
	now := time.Now()
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Info, 0, len(t.entries))
	for _, info := range t.entries {
		if t.fresh(info, now) {
			out = append(out, info)
		}
	}
	return out
}

func (t *Tracker) Get(userID int64) (Info, bool) {
	now := time.Now()
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.entries[userID]
	if !ok || !t.fresh(info, now) {
		return Info{}, false
	}
	return info, true
}

func (t *Tracker) IsActive(userID int64) bool {
	_, ok := t.Get(userID)
	return ok
}

func (t *Tracker) Count() int {
	return len(t.Active())
}

func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}
