package api

// EntryPayload is a submitted food or activity item. Calories may be
// omitted; entries without a usable value are estimated by the oracle.
type EntryPayload struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories"`
}

type CreateDailyLogRequest struct {
	Date          *string        `json:"date"`
	Weight        float64        `json:"weight" binding:"required,gt=0"`
	Height        float64        `json:"height" binding:"required,gt=0"`
	Goal          string         `json:"goal" binding:"required,oneof=lose maintain gain"`
	ActivityLevel string         `json:"activity_level" binding:"required,oneof=sedentary 'lightly active' 'moderately active' 'very active' 'super active'"`
	Food          []EntryPayload `json:"food" binding:"omitempty,dive"`
	Activity      []EntryPayload `json:"activity" binding:"omitempty,dive"`
}

type UpdatePersonalDataRequest struct {
	Weight        *float64 `json:"weight" binding:"omitempty,gt=0"`
	Height        *float64 `json:"height" binding:"omitempty,gt=0"`
	ActivityLevel *string  `json:"activity_level" binding:"omitempty,oneof=sedentary 'lightly active' 'moderately active' 'very active' 'super active'"`
}

type UpdateEntriesRequest struct {
	Food     []EntryPayload `json:"food" binding:"omitempty,dive"`
	Activity []EntryPayload `json:"activity" binding:"omitempty,dive"`
}

type RegisterRequest struct {
	Fullname        string `json:"fullname" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Gender          string `json:"gender" binding:"required,oneof=male female"`
	BirthDate       string `json:"birth_date" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type ActivationRequest struct {
	Code string `json:"code" binding:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Fullname       *string `json:"fullname"`
	ProfilePicture *string `json:"profile_picture"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}
