package appsflyer

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer/afclient"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer/afclient/mocks"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestMasterReportIntegrator_FetchWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	cfg := &config.Config{AppsFlyer: config.AppsFlyer{
		APIToken:  "token-123",
		AppID:     "id123456789",
		Groupings: config.DefaultGroupings,
		KPIs:      config.DefaultKPIs,
	}}
	integrator := New(cfg, mockClient)

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	window := domain.DateWindow{Start: day, End: day}

	tests := []struct {
		name    string
		setup   func()
		want    []domain.Record
		wantErr error
	}{
		{
			name: "Janela retornada pelo cliente",
			setup: func() {
				mockClient.EXPECT().
					GetMasterReport(gomock.Any(), afclient.MasterReportParams{
						APIToken:  "token-123",
						AppID:     "id123456789",
						Groupings: config.DefaultGroupings,
						KPIs:      config.DefaultKPIs,
						From:      day,
						To:        day,
					}).
					Return([]domain.Record{{"Media Source": "fb"}}, nil)
			},
			want: []domain.Record{{"Media Source": "fb"}},
		},
		{
			name: "Erro do cliente é propagado",
			setup: func() {
				mockClient.EXPECT().
					GetMasterReport(gomock.Any(), gomock.Any()).
					Return(nil, afclient.ErrUnauthorized)
			},
			wantErr: afclient.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			records, err := integrator.FetchWindow(context.Background(), window)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, records)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, records)
		})
	}
}
