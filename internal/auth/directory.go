package auth

import "sync"

// Directory remembers the display name seen for each identity at connect
// time, so the roster can resolve names for identities that are currently
// offline. Entries persist for the process lifetime.
type Directory struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewDirectory() *Directory {
	return &Directory{names: make(map[string]string)}
}

func (d *Directory) Record(identity, nick string) {
	d.mu.Lock()
	d.names[identity] = nick
	d.mu.Unlock()
}

func (d *Directory) Nickname(identity string) (string, bool) {
	d.mu.RLock()
	nick, ok := d.names[identity]
	d.mu.RUnlock()
	return nick, ok
}
