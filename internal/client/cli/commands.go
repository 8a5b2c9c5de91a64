package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storypoint/internal/client/api"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("log in first")

func (a *App) report(err error) error {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Message)
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(a.out, "Session expired or missing, please log in again")
		a.userName = ""
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

func (a *App) prompt(labels ...string) ([]string, error) {
	values := make([]string, 0, len(labels))
	for _, l := range labels {
		v, err := getSimpleText(a.reader, l, a.out)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (a *App) SignUp(ctx context.Context) error {
	v, err := a.prompt("Username", "Email", "First name", "Last name")
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.SignUp(ctx, api.SignUpRequest{
		UserName:  v[0],
		Email:     v[1],
		FirstName: v[2],
		LastName:  v[3],
		Password:  password,
	})
	if err != nil {
		return a.report(err)
	}

	a.userName = u.UserName
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.FirstName)
	return nil
}

func (a *App) LogIn(ctx context.Context) error {
	v, err := a.prompt("Username")
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.LogIn(ctx, v[0], password)
	if err != nil {
		return a.report(err)
	}

	a.userName = u.UserName
	fmt.Fprintf(a.out, "Logged in as %s\n", u.UserName)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(errNotLoggedIn)
	}
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}

	if err := a.api.ChangePassword(ctx, current, next); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}

func (a *App) CreateRoom(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(errNotLoggedIn)
	}
	v, err := a.prompt("Room name")
	if err != nil {
		return err
	}

	room, err := a.api.CreateRoom(ctx, v[0])
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Room %q created: %s\n", room.Name, room.RoomID)
	return nil
}

func (a *App) ShowRoom(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return a.report(errNotLoggedIn)
	}
	room, err := a.api.GetRoom(ctx, id)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s  %s  owner=%s  status=%s\n", room.RoomID, room.Name, room.OwnerUserName, room.Status)
	return nil
}

func (a *App) LogOut(ctx context.Context) error {
	a.api.LogOut()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
