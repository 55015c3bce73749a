// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/service"
)

// vaultErrorMessage translates the vault gate sentinels into the phrases the
// gate screens show. Unmatched errors fall through to the transport check.
func vaultErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrInvalidPassword):
		return "Неверный мастер-пароль"
	case errors.Is(err, service.ErrInvalidBackupCode):
		return "Код не подходит или уже использован"
	case errors.Is(err, service.ErrProfileAlreadyExists):
		return "Хранилище уже создано"
	case errors.Is(err, service.ErrProfileMissing):
		return "Хранилище ещё не создано"
	case errors.Is(err, service.ErrTooManyAttempts):
		return "Слишком много неудачных попыток, подождите"
	case errors.Is(err, service.ErrVaultLocked):
		return "Хранилище заблокировано"
	}

	return humanizeServerUnavailableError(err)
}

func humanizeServerUnavailableError(err error) string {
	if err == nil {
		return ""
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}
