package dto

import "github.com/polkiloo/secondfamilies/internal/usecase"

// DonationForm carries both monetary and goods donation fields. Credential
// fields only matter for anonymous donors and are checked by the use case.
type DonationForm struct {
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	Address         string `form:"address"`
	PhoneNumber     string `form:"phone_number"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	Amount          string `form:"amount"`
	Allocation      string `form:"allocation"`
	Item            string `form:"item"`
	Quantity        string `form:"quantity"`
	ImageURL        string `form:"image_url"`
	NeedPickup      string `form:"need_pickup"`
	CanDropOff      string `form:"can_drop_off"`
	DatePickDrop    string `form:"date_pick_drop"`
	AmazonWishList  string `form:"amazon_wish_list"`
}

// UploadField is the multipart field holding goods photos.
const UploadField = "photos"

// Submission converts the form for the donation use case.
func (f DonationForm) Submission() usecase.DonationForm {
	return usecase.DonationForm{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Address:         f.Address,
		PhoneNumber:     f.PhoneNumber,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		Amount:          f.Amount,
		Allocation:      f.Allocation,
		Item:            f.Item,
		Quantity:        f.Quantity,
		ImageURL:        f.ImageURL,
		NeedPickup:      f.NeedPickup,
		CanDropOff:      f.CanDropOff,
		DatePickDrop:    f.DatePickDrop,
		AmazonWishList:  f.AmazonWishList,
	}
}

// Redacted returns a copy safe to echo back into a rendered form.
func (f DonationForm) Redacted() DonationForm {
	f.Password = ""
	f.ConfirmPassword = ""
	return f
}
