package models

import "testing"

func TestTurnRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     TurnRequest
		wantErr bool
	}{
		{"valid first step", TurnRequest{StepIndex: 1, IntentKey: "icp_industries", UserAnswer: "SaaS"}, false},
		{"valid last step", TurnRequest{StepIndex: 11, IntentKey: "confirmation"}, false},
		{"step index zero", TurnRequest{StepIndex: 0, IntentKey: "icp_industries"}, true},
		{"step index past end", TurnRequest{StepIndex: 12, IntentKey: "confirmation"}, true},
		{"missing intent key", TurnRequest{StepIndex: 3}, true},
		{"blank intent key", TurnRequest{StepIndex: 3, IntentKey: "   "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAPIResponseHelpers(t *testing.T) {
	errResp := Error("something broke")
	if errResp.Status != string(APIStatusError) || errResp.Message != "something broke" {
		t.Errorf("Error() = %+v", errResp)
	}

	okResp := Success(map[string]string{"id": "abc"})
	if okResp.Status != string(APIStatusOK) || okResp.Result == nil {
		t.Errorf("Success() = %+v", okResp)
	}

	msgResp := SuccessWithMessage("created", nil)
	if msgResp.Status != string(APIStatusOK) || msgResp.Message != "created" {
		t.Errorf("SuccessWithMessage() = %+v", msgResp)
	}
}
