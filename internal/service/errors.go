package service

import "errors"

// 业务错误，HTTP 层据此映射状态码；存储层错误不直接外泄
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrUnknownUser        = errors.New("unknown user")
	ErrUnknownPost        = errors.New("unknown post")
	ErrUnknownComment     = errors.New("unknown comment")
	ErrSelfFollow         = errors.New("cannot follow self")
	ErrAlreadyFollowing   = errors.New("already following")
	ErrNotFollowing       = errors.New("not following")
	ErrNotOwner           = errors.New("not the owner")
	ErrConstraint         = errors.New("constraint violation")
)
