package response

import "relief-ledger/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        *queries.UserView `json:"user"`
}
