//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testUserID = "7f1c2b9e-4a5d-4c3b-9e8f-1a2b3c4d5e6f"

func TestCreateSessionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateSessionRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: CreateSessionRequest{
				UserID: testUserID, PitchType: PitchTypeElevator,
				Transcript: "We help clinics schedule staff.", DurationSeconds: 60,
			},
		},
		{
			name: "valid with deck",
			request: CreateSessionRequest{
				UserID: testUserID, PitchDeckID: testUserID, PitchType: PitchTypeInvestor,
				Transcript: "Hello",
			},
		},
		{
			name:    "missing transcript",
			request: CreateSessionRequest{UserID: testUserID, PitchType: PitchTypeElevator},
			wantErr: true,
			errMsg:  "Transcript",
		},
		{
			name:    "unknown pitch type",
			request: CreateSessionRequest{UserID: testUserID, PitchType: "webinar", Transcript: "Hi"},
			wantErr: true,
			errMsg:  "oneof",
		},
		{
			name:    "bad user id",
			request: CreateSessionRequest{UserID: "user-1", PitchType: PitchTypeOther, Transcript: "Hi"},
			wantErr: true,
			errMsg:  "uuid",
		},
		{
			name: "negative duration",
			request: CreateSessionRequest{
				UserID: testUserID, PitchType: PitchTypeOther, Transcript: "Hi", DurationSeconds: -1,
			},
			wantErr: true,
			errMsg:  "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUploadDeckRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UploadDeckRequest{UserID: testUserID, Title: "Seed", FileName: "deck.pdf"}).Validate())
	assert.Error(t, (&UploadDeckRequest{UserID: testUserID, FileName: "deck.pdf"}).Validate())
	assert.Error(t, (&UploadDeckRequest{UserID: testUserID, Title: "Seed"}).Validate())
}

func TestSubmitAnswerRequest_Validate(t *testing.T) {
	assert.NoError(t, (&SubmitAnswerRequest{UserID: testUserID, AnswerText: "Our CAC is $40."}).Validate())
	assert.Error(t, (&SubmitAnswerRequest{UserID: testUserID}).Validate())
	assert.Error(t, (&SubmitAnswerRequest{UserID: testUserID, AnswerText: "x", PracticeSessionID: "nope"}).Validate())
}
