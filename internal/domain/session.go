package domain

import "time"

// Cookie is the part of an auth cookie worth persisting between runs.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the locally remembered login. The zero value is logged out.
type Session struct {
	User         *User     `json:"user"`
	LoginAt      time.Time `json:"loginAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	Cookies      []Cookie  `json:"cookies,omitempty"`
}

// Login replaces the session with a fresh one for user.
func (s *Session) Login(user User, cookies []Cookie, now time.Time) {
	s.User = &user
	s.LoginAt = now
	s.LastActiveAt = now
	s.Cookies = append([]Cookie(nil), cookies...)
}

// Logout forgets the user and the auth cookies.
func (s *Session) Logout() {
	*s = Session{}
}

// Touch records activity, pushing the idle deadline forward.
func (s *Session) Touch(now time.Time) {
	if s.Active() && now.After(s.LastActiveAt) {
		s.LastActiveAt = now
	}
}

// Active reports whether somebody is logged in.
func (s Session) Active() bool {
	return s.User != nil
}

// ExpiresAt returns the idle deadline. It is zero when timeout is disabled or
// nobody is logged in.
func (s Session) ExpiresAt(timeout time.Duration) time.Time {
	if !s.Active() || timeout <= 0 {
		return time.Time{}
	}
	return s.LastActiveAt.Add(timeout)
}

// Expired reports whether the session has been idle for at least timeout.
func (s Session) Expired(now time.Time, timeout time.Duration) bool {
	return s.Active() && SessionExpired(now, s.LastActiveAt, timeout)
}

// SessionExpired is the idle check the application shell evaluates on its own timer.
// A non-positive timeout never expires.
func SessionExpired(now, since time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return !now.Before(since.Add(timeout))
}
