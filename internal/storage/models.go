package storage

import (
	"time"

	"golang.org/x/oauth2"
)

// StoredToken is the persisted form of an OAuth token.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	Scope        string    `json:"scope,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

func fromOAuth(tok *oauth2.Token) *StoredToken {
	st := &StoredToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		SavedAt:      time.Now(),
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		st.Scope = scope
	}
	return st
}

// OAuth converts the record back into a token usable by an oauth2 client.
func (st *StoredToken) OAuth() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		RefreshToken: st.RefreshToken,
		Expiry:       st.Expiry,
	}
	if st.Scope != "" {
		tok = tok.WithExtra(map[string]interface{}{"scope": st.Scope})
	}
	return tok
}
