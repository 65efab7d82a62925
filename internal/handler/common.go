package handler // handler defines http handlers

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// filePart is the JSON shape of an uploaded file (avatar) reference.
type filePart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// userPart is the JSON shape of a user in responses.
type userPart struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Provider bool      `json:"provider"`
	Avatar   *filePart `json:"avatar,omitempty"`
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// fileURL builds the public URL for a stored file path.
func fileURL(appURL, path string) string {
	return appURL + "/files/" + path
}

// avatarPart assembles a filePart from nullable join columns, or nil
// when the user has no avatar.
func avatarPart(appURL string, id sql.NullInt64, name, path sql.NullString) *filePart {
	if !id.Valid {
		return nil
	}
	return &filePart{
		ID:   uint64(id.Int64),
		Name: name.String,
		Path: path.String,
		URL:  fileURL(appURL, path.String),
	}
}
