package telegram

import "errors"

var (
	ErrInvalidInitData = errors.New("invalid init data signature")
	ErrExpiredInitData = errors.New("init data is too old")
	ErrNoInitDataUser  = errors.New("init data carries no user")
)
