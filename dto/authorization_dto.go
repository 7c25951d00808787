package dto

// AuthorizationDTO is shared by create and update: both require the full
// record (spec'd full-replace semantics). Status and ApprovedBy are ignored
// on create and optional on update; dates arrive as strings from the date
// pickers and are parsed by the controller.
type AuthorizationDTO struct {
	CompanyName string `json:"companyName" binding:"required"`
	RUC         string `json:"ruc" binding:"required,len=11,numeric"`
	Reason      string `json:"reason" binding:"required"`
	UserID      string `json:"userId" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	Status      string `json:"status" binding:"omitempty,oneof=initiated completed approved rejected"`
	ApprovedBy  string `json:"approvedBy"`
}
