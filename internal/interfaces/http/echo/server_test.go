package echo_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	app "github.com/alirezamp/audio-batch-service/internal/application/batch"
	"github.com/alirezamp/audio-batch-service/internal/auth"
	httpecho "github.com/alirezamp/audio-batch-service/internal/interfaces/http/echo"
)

const (
	testJWTSecret      = "jwt-secret"
	testInternalSecret = "internal-secret"
)

type fakeIngest struct {
	output app.IngestOutput
	err    error
	gotIn  app.IngestInput
}

func (f *fakeIngest) Execute(ctx context.Context, in app.IngestInput) (app.IngestOutput, error) {
	f.gotIn = in
	if f.err != nil {
		return app.IngestOutput{}, f.err
	}
	return f.output, nil
}

type fakeGetStatus struct {
	output app.GetBatchStatusOutput
	err    error
	gotIn  app.GetBatchStatusInput
}

func (f *fakeGetStatus) Execute(ctx context.Context, in app.GetBatchStatusInput) (app.GetBatchStatusOutput, error) {
	f.gotIn = in
	if f.err != nil {
		return app.GetBatchStatusOutput{}, f.err
	}
	return f.output, nil
}

type fakeList struct {
	output app.ListBatchesOutput
	err    error
	gotIn  app.ListBatchesInput
}

func (f *fakeList) Execute(ctx context.Context, in app.ListBatchesInput) (app.ListBatchesOutput, error) {
	f.gotIn = in
	if f.err != nil {
		return app.ListBatchesOutput{}, f.err
	}
	return f.output, nil
}

type fakeDownload struct {
	output app.DownloadArtifactOutput
	err    error
	gotIn  app.DownloadArtifactInput
}

func (f *fakeDownload) Execute(ctx context.Context, in app.DownloadArtifactInput) (app.DownloadArtifactOutput, error) {
	f.gotIn = in
	if f.err != nil {
		return app.DownloadArtifactOutput{}, f.err
	}
	return f.output, nil
}

type fakeReprocess struct {
	output app.ReprocessBatchOutput
	err    error
	gotIn  app.ReprocessBatchInput
}

func (f *fakeReprocess) Execute(ctx context.Context, in app.ReprocessBatchInput) (app.ReprocessBatchOutput, error) {
	f.gotIn = in
	if f.err != nil {
		return app.ReprocessBatchOutput{}, f.err
	}
	return f.output, nil
}

type fakePublish struct {
	output app.PublishCompletionEventOutput
	err    error
	gotIn  app.PublishCompletionEventInput
}

func (f *fakePublish) Execute(ctx context.Context, in app.PublishCompletionEventInput) (app.PublishCompletionEventOutput, error) {
	f.gotIn = in
	if f.err != nil {
		return app.PublishCompletionEventOutput{}, f.err
	}
	return f.output, nil
}

type testUseCases struct {
	ingest    *fakeIngest
	getStatus *fakeGetStatus
	list      *fakeList
	download  *fakeDownload
	reprocess *fakeReprocess
	publish   *fakePublish
}

func newTestServer(t *testing.T) (*echo.Echo, *testUseCases) {
	t.Helper()

	ucs := &testUseCases{
		ingest:    &fakeIngest{},
		getStatus: &fakeGetStatus{},
		list:      &fakeList{},
		download:  &fakeDownload{},
		reprocess: &fakeReprocess{},
		publish:   &fakePublish{},
	}

	e := echo.New()
	e.HTTPErrorHandler = httpecho.ErrorHandler
	httpecho.RegisterRoutes(e, httpecho.Handlers{
		Upload:      httpecho.NewUploadHandler(ucs.ingest),
		Batch:       httpecho.NewBatchHandler(ucs.getStatus, ucs.list, ucs.download),
		Internal:    httpecho.NewInternalHandler(ucs.reprocess, ucs.publish),
		Credentials: httpecho.NewCredentialsHandler(app.NewIssueCredentials("mqtts://broker.example.com:8883")),
	}, auth.NewTokenValidator(testJWTSecret), testInternalSecret)

	return e, ucs
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()

	token, err := auth.SignForTests(testJWTSecret, subject, "", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func authorize(t *testing.T, req *http.Request, subject string) {
	t.Helper()
	req.Header.Set(echo.HeaderAuthorization, bearerToken(t, subject))
}
