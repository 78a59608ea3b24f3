package models

import "errors"

var (
	// ErrParse базовая ошибка разбора входных данных: прайса, остатка, цены
	ErrParse = errors.New("parse error")
	// ErrMalformedResponse ответ маркетплейса не содержит ожидаемых полей
	ErrMalformedResponse = errors.New("malformed marketplace response")
	// ErrRunInProgress синхронизация уже запущена
	ErrRunInProgress = errors.New("sync run already in progress")
)
