package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/amorty/cafe-admin/models"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&models.DuplicateKeyError{Kind: "meja", Key: "MJ1"}, http.StatusConflict},
		{&models.NotFoundError{Kind: "meja", Key: "MJ1"}, http.StatusNotFound},
		{&models.ValidationError{Field: "status", Message: "bad"}, http.StatusUnprocessableEntity},
		{&models.ParseError{Field: "date", Value: "x", Err: errors.New("bad")}, http.StatusUnprocessableEntity},
		{&models.StorageUnavailableError{Err: errors.New("down")}, http.StatusServiceUnavailable},
		{fmt.Errorf("save: %w", models.ErrNoPermission), http.StatusForbidden},
		{models.ErrTableNotFree, http.StatusConflict},
		{models.ErrTokenRevoked, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}
