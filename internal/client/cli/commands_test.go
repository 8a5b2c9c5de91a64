package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storypoint/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	signUp    api.SignUpRequest
	logIn     [2]string
	changePw  [2]string
	roomName  string
	err       error
	loggedOut bool
}

func (f *fakeAPI) SignUp(ctx context.Context, req api.SignUpRequest) (*api.User, error) {
	f.signUp = req
	if f.err != nil {
		return nil, f.err
	}
	return &api.User{UserName: req.UserName, FirstName: req.FirstName}, nil
}

func (f *fakeAPI) LogIn(ctx context.Context, userName, password string) (*api.User, error) {
	f.logIn = [2]string{userName, password}
	if f.err != nil {
		return nil, f.err
	}
	return &api.User{UserName: userName}, nil
}

func (f *fakeAPI) ChangePassword(ctx context.Context, current, next string) error {
	f.changePw = [2]string{current, next}
	return f.err
}

func (f *fakeAPI) CreateRoom(ctx context.Context, name string) (*api.Room, error) {
	f.roomName = name
	if f.err != nil {
		return nil, f.err
	}
	return &api.Room{RoomID: "r-1", Name: name}, nil
}

func (f *fakeAPI) GetRoom(ctx context.Context, id string) (*api.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.Room{RoomID: id, Name: "Sprint", OwnerUserName: "alice", Status: "OPEN"}, nil
}

func (f *fakeAPI) Ping(ctx context.Context) error { return nil }
func (f *fakeAPI) LogOut()                        { f.loggedOut = true }

// newTestApp feeds input lines to prompts and passwords to password prompts.
func newTestApp(t *testing.T, f *fakeAPI, input string, passwords ...string) (*App, *bytes.Buffer) {
	t.Helper()

	oldPw := getPassword
	t.Cleanup(func() { getPassword = oldPw })
	getPassword = func(prompt string, w io.Writer) (string, error) {
		require.NotEmpty(t, passwords, "unexpected password prompt %q", prompt)
		p := passwords[0]
		passwords = passwords[1:]
		return p, nil
	}

	out := &bytes.Buffer{}
	return &App{api: f, reader: bufio.NewReader(strings.NewReader(input)), out: out}, out
}

func TestSignUp(t *testing.T) {
	f := &fakeAPI{}
	app, out := newTestApp(t, f, "alice\nalice@example.com\nAlice\nLiddell\n", "wonderland")

	require.NoError(t, app.SignUp(context.Background()))

	assert.Equal(t, api.SignUpRequest{
		UserName: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell", Password: "wonderland",
	}, f.signUp)
	assert.True(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Welcome, Alice!")
}

func TestSignUp_ReportsServerMessage(t *testing.T) {
	f := &fakeAPI{err: &api.APIError{StatusCode: 409, Message: "Email already exists"}}
	app, out := newTestApp(t, f, "alice\nalice@example.com\nAlice\nLiddell\n", "wonderland")

	assert.Error(t, app.SignUp(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Error: Email already exists")
}

func TestLogIn(t *testing.T) {
	f := &fakeAPI{}
	app, out := newTestApp(t, f, "alice\n", "wonderland")

	require.NoError(t, app.LogIn(context.Background()))

	assert.Equal(t, [2]string{"alice", "wonderland"}, f.logIn)
	assert.Equal(t, "alice", app.getStatus())
	assert.Contains(t, out.String(), "Logged in as alice")
}

func TestProtectedCommandsNeedLogin(t *testing.T) {
	f := &fakeAPI{}
	app, out := newTestApp(t, f, "")

	assert.ErrorIs(t, app.CreateRoom(context.Background()), errNotLoggedIn)
	assert.ErrorIs(t, app.ChangePassword(context.Background()), errNotLoggedIn)
	assert.ErrorIs(t, app.ShowRoom(context.Background(), "r-1"), errNotLoggedIn)
	assert.Equal(t, "", f.roomName)
	assert.Contains(t, out.String(), "log in first")
}

func TestCreateRoomAndShow(t *testing.T) {
	f := &fakeAPI{}
	app, out := newTestApp(t, f, "Sprint 7\n")
	app.userName = "alice"

	require.NoError(t, app.CreateRoom(context.Background()))
	assert.Equal(t, "Sprint 7", f.roomName)
	assert.Contains(t, out.String(), `Room "Sprint 7" created: r-1`)

	require.NoError(t, app.ShowRoom(context.Background(), "r-9"))
	assert.Contains(t, out.String(), "r-9  Sprint  owner=alice  status=OPEN")
}

func TestChangePassword(t *testing.T) {
	f := &fakeAPI{}
	app, out := newTestApp(t, f, "", "old-password", "new-password")
	app.userName = "alice"

	require.NoError(t, app.ChangePassword(context.Background()))
	assert.Equal(t, [2]string{"old-password", "new-password"}, f.changePw)
	assert.Contains(t, out.String(), "Password updated")
}

func TestUnauthorizedDropsSession(t *testing.T) {
	f := &fakeAPI{err: api.ErrUnauthorized}
	app, out := newTestApp(t, f, "Sprint 7\n")
	app.userName = "alice"

	assert.ErrorIs(t, app.CreateRoom(context.Background()), api.ErrUnauthorized)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "please log in again")
}

func TestLogOut(t *testing.T) {
	f := &fakeAPI{}
	app, _ := newTestApp(t, f, "")
	app.userName = "alice"

	require.NoError(t, app.LogOut(context.Background()))
	assert.True(t, f.loggedOut)
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "guest", app.getStatus())
}
