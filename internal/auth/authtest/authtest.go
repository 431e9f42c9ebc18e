// Package authtest provides in-memory fakes of the auth core's backend and
// keychain that count calls and can be told to fail.
package authtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
)

// Operation names, for Calls and Fail.
const (
	OpFindCoach    = "FindCoachByAccessCode"
	OpFindIdentity = "FindIdentity"
	OpFindParent   = "FindParentByPhone"
	OpFindTeam     = "FindTeamByAccessCode"
	OpCreateParent = "CreateParent"
	OpSignIn       = "SignInWithPassword"
	OpSignInPhone  = "SignInWithPhone"
	OpResume       = "Resume"
	OpRevoke       = "Revoke"
)

type user struct {
	identity auth.Identity
	password string
}

type parent struct {
	record   auth.Parent
	password string
}

// Backend is an in-memory auth.Backend. Access codes match
// case-insensitively and coaches sign in with their code, as the club store
// does.
type Backend struct {
	mu sync.Mutex

	users   map[string]*user // by id
	coaches []auth.Coach
	parents map[string]*parent // by phone
	teams   []auth.Team

	sessions map[string]auth.Identity // live tokens
	calls    map[string]int
	fail     map[string]error
	nextID   int
}

func NewBackend() *Backend {
	return &Backend{
		users:    make(map[string]*user),
		parents:  make(map[string]*parent),
		sessions: make(map[string]auth.Identity),
		calls:    make(map[string]int),
		fail:     make(map[string]error),
	}
}

// AddUser stores an identity signing in with password. Role is the stored
// role string.
func (b *Backend) AddUser(id, email, role, name, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[id] = &user{
		identity: auth.Identity{ID: id, Email: strings.ToLower(email), Role: role, Name: name},
		password: password,
	}
}

// AddCoach stores a coach identity whose password is its access code.
func (b *Backend) AddCoach(userID, email, name, code string) auth.Coach {
	code = strings.ToUpper(code)
	b.AddUser(userID, email, "coach", name, code)

	b.mu.Lock()
	defer b.mu.Unlock()
	c := auth.Coach{ID: b.newID("coach"), UserID: userID, AccessCode: code}
	b.coaches = append(b.coaches, c)
	return c
}

// AddOrphanCoach stores a coach row whose linked identity does not exist.
func (b *Backend) AddOrphanCoach(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.coaches = append(b.coaches, auth.Coach{ID: b.newID("coach"), UserID: "missing", AccessCode: strings.ToUpper(code)})
}

func (b *Backend) AddTeam(name, code string) auth.Team {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := auth.Team{ID: b.newID("team"), Name: name, AccessCode: strings.ToUpper(code)}
	b.teams = append(b.teams, t)
	return t
}

func (b *Backend) AddParent(first, last, phone, teamID, password string) auth.Parent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addParentLocked(auth.NewParent{FirstName: first, LastName: last, Phone: phone, TeamID: teamID, Password: password})
}

func (b *Backend) addParentLocked(in auth.NewParent) auth.Parent {
	p := auth.Parent{
		ID:        b.newID("parent"),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		TeamID:    in.TeamID,
	}
	b.parents[in.Phone] = &parent{record: p, password: in.Password}
	return p
}

// Fail makes every later call of op return err. A nil err clears it.
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fail, op)
		return
	}
	b.fail[op] = err
}

// Calls reports how many times op was called.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls reports calls across all operations.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// Expire kills a live token, as if its session had expired at the store.
func (b *Backend) Expire(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, token)
}

// Live reports whether token still resumes.
func (b *Backend) Live(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.sessions[token]
	return ok
}

func (b *Backend) newID(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

// enter counts op and returns its injected failure. The caller holds mu.
func (b *Backend) enter(op string) error {
	b.calls[op]++
	return b.fail[op]
}

func (b *Backend) issue(id auth.Identity, channel auth.Channel) auth.Credential {
	token := b.newID("token")
	b.sessions[token] = id
	return auth.Credential{Token: token, Channel: channel, ExpiresAt: time.Now().Add(time.Hour)}
}

func (b *Backend) FindCoachByAccessCode(_ context.Context, code string) (auth.Coach, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpFindCoach); err != nil {
		return auth.Coach{}, err
	}
	for _, c := range b.coaches {
		if c.AccessCode == strings.ToUpper(code) {
			return c, nil
		}
	}
	return auth.Coach{}, auth.ErrNotFound
}

func (b *Backend) FindIdentity(_ context.Context, id string) (auth.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpFindIdentity); err != nil {
		return auth.Identity{}, err
	}
	u, ok := b.users[id]
	if !ok {
		return auth.Identity{}, auth.ErrNotFound
	}
	return u.identity, nil
}

func (b *Backend) FindParentByPhone(_ context.Context, phone string) (auth.Parent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpFindParent); err != nil {
		return auth.Parent{}, err
	}
	p, ok := b.parents[phone]
	if !ok {
		return auth.Parent{}, auth.ErrNotFound
	}
	return p.record, nil
}

func (b *Backend) FindTeamByAccessCode(_ context.Context, code string) (auth.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpFindTeam); err != nil {
		return auth.Team{}, err
	}
	for _, t := range b.teams {
		if t.AccessCode == strings.ToUpper(code) {
			return t, nil
		}
	}
	return auth.Team{}, auth.ErrNotFound
}

func (b *Backend) CreateParent(_ context.Context, in auth.NewParent) (auth.Parent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpCreateParent); err != nil {
		return auth.Parent{}, err
	}
	if _, exists := b.parents[in.Phone]; exists {
		return auth.Parent{}, auth.ErrRejected
	}
	return b.addParentLocked(in), nil
}

func (b *Backend) SignInWithPassword(_ context.Context, email, password string) (auth.Identity, auth.Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpSignIn); err != nil {
		return auth.Identity{}, auth.Credential{}, err
	}
	for _, u := range b.users {
		if u.identity.Email != strings.ToLower(email) {
			continue
		}
		channel := auth.ChannelPassword
		if u.identity.Role == "coach" {
			password = strings.ToUpper(password)
			channel = auth.ChannelAccessCode
		}
		if u.password != password {
			return auth.Identity{}, auth.Credential{}, auth.ErrRejected
		}
		return u.identity, b.issue(u.identity, channel), nil
	}
	return auth.Identity{}, auth.Credential{}, auth.ErrRejected
}

func (b *Backend) SignInWithPhone(_ context.Context, phone, password string) (auth.Identity, auth.Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpSignInPhone); err != nil {
		return auth.Identity{}, auth.Credential{}, err
	}
	p, ok := b.parents[phone]
	if !ok || p.password != password {
		return auth.Identity{}, auth.Credential{}, auth.ErrRejected
	}
	id := auth.Identity{
		ID:    p.record.ID,
		Role:  "parent",
		Name:  strings.TrimSpace(p.record.FirstName + " " + p.record.LastName),
		Phone: p.record.Phone,
	}
	return id, b.issue(id, auth.ChannelPhonePassword), nil
}

func (b *Backend) Resume(_ context.Context, cred auth.Credential) (auth.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpResume); err != nil {
		return auth.Identity{}, err
	}
	id, ok := b.sessions[cred.Token]
	if !ok {
		return auth.Identity{}, auth.ErrExpired
	}
	return id, nil
}

func (b *Backend) Revoke(_ context.Context, cred auth.Credential) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpRevoke); err != nil {
		return err
	}
	delete(b.sessions, cred.Token)
	return nil
}

// Keychain is an in-memory auth.Keychain.
type Keychain struct {
	mu   sync.Mutex
	cred auth.Credential
	ok   bool

	// LoadErr, SaveErr and ClearErr are returned by the matching call when
	// set.
	LoadErr  error
	SaveErr  error
	ClearErr error
}

// Put seeds the keychain with cred.
func (k *Keychain) Put(cred auth.Credential) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cred, k.ok = cred, true
}

func (k *Keychain) Load() (auth.Credential, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.LoadErr != nil {
		return auth.Credential{}, false, k.LoadErr
	}
	return k.cred, k.ok, nil
}

func (k *Keychain) Save(cred auth.Credential) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.SaveErr != nil {
		return k.SaveErr
	}
	k.cred, k.ok = cred, true
	return nil
}

func (k *Keychain) Clear() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.ClearErr != nil {
		return k.ClearErr
	}
	k.cred, k.ok = auth.Credential{}, false
	return nil
}
