package accountdelivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/golang/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func randomAccount(balance string) domain.Account {
	return domain.Account{
		ID:        uuid.NewString(),
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func newTestServer(service Service) *gin.Engine {
	handler := NewHandler(service)

	server := gin.New()
	server.POST("/accounts", handler.Create)
	server.GET("/accounts", handler.List)
	server.GET("/accounts/:id", handler.Get)
	server.GET("/accounts/:id/balance", handler.GetBalance)

	return server
}

func TestCreate(t *testing.T) {
	account := randomAccount("0.00")

	testCases := []struct {
		name           string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any()).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "InternalServerError",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any()).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newTestServer(service)

			req, err := http.NewRequest(http.MethodPost, "/accounts", nil)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantStatusCode == http.StatusCreated {
				var res struct {
					Data struct {
						Account domain.Account `json:"account"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(account, res.Data.Account, compareCreatedAt); diff != "" {
					t.Errorf("res.Data.Account mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	account := randomAccount("50.00")

	testCases := []struct {
		name           string
		accountID      string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name:      "OK",
			accountID: account.ID,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:      "InvalidID",
			accountID: "not-a-uuid",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:      "NotFound",
			accountID: account.ID,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:      "InternalServerError",
			accountID: account.ID,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newTestServer(service)

			url := fmt.Sprintf("/accounts/%s", tc.accountID)
			req, err := http.NewRequest(http.MethodGet, url, nil)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)
		})
	}
}

func TestGetBalance(t *testing.T) {
	account := randomAccount("20.00")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewMockService(ctrl)
	service.EXPECT().
		Get(gomock.Any(), gomock.Eq(account.ID)).
		Times(1).
		Return(account, nil)

	server := newTestServer(service)

	url := fmt.Sprintf("/accounts/%s/balance", account.ID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data struct {
			AccountID string `json:"account_id"`
			Balance   string `json:"balance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.Equal(t, account.ID, res.Data.AccountID)
	require.Equal(t, "20.00", res.Data.Balance)
}

func TestList(t *testing.T) {
	accounts := []domain.Account{randomAccount("0.00"), randomAccount("50.00")}

	testCases := []struct {
		name           string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any()).
					Times(1).
					Return(accounts, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "InternalServerError",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					List(gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newTestServer(service)

			req, err := http.NewRequest(http.MethodGet, "/accounts", nil)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantStatusCode == http.StatusOK {
				var res struct {
					Data struct {
						Accounts []domain.Account `json:"accounts"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(accounts, res.Data.Accounts, compareCreatedAt); diff != "" {
					t.Errorf("res.Data.Accounts mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
