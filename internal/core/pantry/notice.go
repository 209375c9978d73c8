package pantry

import "fmt"

// NoticeType 通知類型
type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeInfo    NoticeType = "info"
	NoticeError   NoticeType = "error"
)

// Notice 回饋給使用者的短訊息
type Notice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}

// IsZero 沒有任何訊息
func (n Notice) IsZero() bool {
	return n.Message == ""
}

func success(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeSuccess, Message: fmt.Sprintf(format, args...)}
}

func info(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeInfo, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeError, Message: fmt.Sprintf(format, args...)}
}

// 使用者可見的訊息
const (
	msgAdded              = "Added %q to your pantry!"
	msgAlreadyInPantry    = "%q is already in your pantry!"
	msgRemovedIngredient  = "Removed %q from your pantry."
	msgUnknownIngredient  = "%q is not in the ingredient list."
	msgSuggestUnavailable = "Could not get a new ingredient suggestion."
	msgSuggestFailed      = "Failed to get ingredient suggestion."
	msgSuggestBusy        = "Already looking for a suggestion."
	msgNeedIngredients    = "Please add at least one ingredient to find recipes."
	msgSearchBusy         = "Already searching for recipes."
	msgFoundRecipes       = "Found %d delicious recipes!"
	msgNoRecipes          = "No recipes found for your selection."
	msgRecipesFailed      = "Failed to generate recipes from AI. Please try again."
	msgFiltersUpdated     = "Filters updated."
	msgFiltersCleared     = "All filters cleared."
	msgSaved              = "Saved %q!"
	msgUnsaved            = "Removed %q from saved recipes."
	msgRated              = "Rated %q %d stars!"
	msgInvalidRating      = "Rating must be between %d and %d stars."
	msgCooked             = "Hooray! You cooked %q!"
	msgStartCooking       = "Starting to cook %q!"
	msgBackToRecipes      = "Back to recipe ideas."
	msgChatNotReady       = "Chat not ready. Please try again."
	msgChatFailed         = "Failed to get response from AI. Please try again."
	msgChatApology        = "Sorry, I encountered an error. Please try again."
)
