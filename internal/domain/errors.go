package domain

import "errors"

// ErrDuplicateEmail 是服务层唯一主动产生的错误；存储层错误原样透传。
var ErrDuplicateEmail = errors.New("employee already exists with email")
