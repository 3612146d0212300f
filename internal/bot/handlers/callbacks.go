package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback data formats shared between the handlers that parse them and the
// notifier that builds the inline keyboards.
const (
	CallbackCategoryPrefix  = "category_"
	CallbackConfirm         = "confirm_vacancy"
	CallbackRestart         = "restart_vacancy"
	CallbackApprovePrefix   = "approve_"
	CallbackRejectPrefix    = "reject_"
	CallbackFilledPrefix    = "filled_"
	CallbackNotFilledPrefix = "not_filled_"
)

// CategoryCallback builds the callback data for a category selection button.
func CategoryCallback(tag string) string {
	return CallbackCategoryPrefix + tag
}

// ApproveCallback builds the callback data for a moderator approve button.
func ApproveCallback(vacancyID int64) string {
	return fmt.Sprintf("%s%d", CallbackApprovePrefix, vacancyID)
}

// RejectCallback builds the callback data for a moderator reject button.
func RejectCallback(vacancyID int64) string {
	return fmt.Sprintf("%s%d", CallbackRejectPrefix, vacancyID)
}

// FilledCallback builds the callback data for the submitter's "filled" reply.
func FilledCallback(vacancyID int64) string {
	return fmt.Sprintf("%s%d", CallbackFilledPrefix, vacancyID)
}

// NotFilledCallback builds the callback data for the submitter's "not filled" reply.
func NotFilledCallback(vacancyID int64) string {
	return fmt.Sprintf("%s%d", CallbackNotFilledPrefix, vacancyID)
}

// parseCallbackID extracts the vacancy ID from callback data with the given prefix.
func parseCallbackID(data, prefix string) (int64, error) {
	raw := strings.TrimPrefix(data, prefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed callback data %q: %w", data, err)
	}
	return id, nil
}
