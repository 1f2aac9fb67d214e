package wire

const ServiceName = "mysterycard.v1.MysteryCardService"

const (
	MethodPing           = "Ping"
	MethodRegister       = "Register"
	MethodLogin          = "Login"
	MethodAdminKey       = "AdminKey"
	MethodStartGame      = "StartGame"
	MethodSubmitGuess    = "SubmitGuess"
	MethodGetProfile     = "GetProfile"
	MethodUpdateProfile  = "UpdateProfile"
	MethodListCards      = "ListCards"
	MethodGetCard        = "GetCard"
	MethodCreateCard     = "CreateCard"
	MethodUpdateCard     = "UpdateCard"
	MethodDeleteCard     = "DeleteCard"
	MethodImageUploadURL = "ImageUploadURL"
	MethodListAccounts   = "ListAccounts"
	MethodUpdateAccount  = "UpdateAccount"
	MethodDeleteAccount  = "DeleteAccount"
)

// FullMethod returns the gRPC route for a method of the service.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
