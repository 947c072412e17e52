// Package models defines the records the client exchanges with the backend:
// profiles, peers and direct messages.
package models

import "net/url"

// DefaultThemeColor is used whenever a profile carries no theme colour.
const DefaultThemeColor = "#3b82f6"

// Profile is the signed-in user's record as returned by GET /profile.
type Profile struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
	Location   string `json:"location"`
	Interests  string `json:"interests"`
	Website    string `json:"website"`
	ThemeColor string `json:"theme_color"`
}

// ProfileDraft holds the editable subset of a Profile. It is sent as-is as
// the body of PUT /profile.
type ProfileDraft struct {
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
	Location   string `json:"location"`
	Interests  string `json:"interests"`
	Website    string `json:"website"`
	ThemeColor string `json:"theme_color"`
}

// DraftFrom copies every editable field of p into a new draft.
func DraftFrom(p Profile) ProfileDraft {
	d := ProfileDraft{
		Avatar:     p.Avatar,
		Bio:        p.Bio,
		Location:   p.Location,
		Interests:  p.Interests,
		Website:    p.Website,
		ThemeColor: p.ThemeColor,
	}
	if d.ThemeColor == "" {
		d.ThemeColor = DefaultThemeColor
	}
	return d
}

// Merge returns p with every draft field written over it.
func (d ProfileDraft) Merge(p Profile) Profile {
	p.Avatar = d.Avatar
	p.Bio = d.Bio
	p.Location = d.Location
	p.Interests = d.Interests
	p.Website = d.Website
	p.ThemeColor = d.ThemeColor
	return p
}

// AvatarURL returns the avatar or a generated one based on the username.
func (p Profile) AvatarURL() string {
	if p.Avatar != "" {
		return p.Avatar
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(p.Username)
}
