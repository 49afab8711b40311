package model

import "encoding/json"

// NoDescription is shown when a user has not filled in a profile description.
const NoDescription = "-"

// User is a Qiita account as returned by the users API.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	FolloweesCount  int    `json:"followees_count"`
	FollowersCount  int    `json:"followers_count"`
	ProfileImageURL string `json:"profile_image_url"`
}

// UnmarshalJSON decodes a user and substitutes NoDescription for a missing or null description.
func (u *User) UnmarshalJSON(data []byte) error {
	var payload struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		Description     *string `json:"description"`
		FolloweesCount  int     `json:"followees_count"`
		FollowersCount  int     `json:"followers_count"`
		ProfileImageURL string  `json:"profile_image_url"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	*u = User{
		ID:              payload.ID,
		Name:            payload.Name,
		Description:     NoDescription,
		FolloweesCount:  payload.FolloweesCount,
		FollowersCount:  payload.FollowersCount,
		ProfileImageURL: payload.ProfileImageURL,
	}
	if payload.Description != nil {
		u.Description = *payload.Description
	}
	return nil
}
