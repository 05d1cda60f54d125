package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObject struct {
	body        []byte
	contentType string
}

// fakeS3 answers the handful of path-style S3 calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2023-10-25T12:00:00Z</LastModified></Contents>", k, len(f.objects[k].body))
		}
		b.WriteString("</ListBucketResult>")
		return response(http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}}), nil
	}

	switch req.Method {
	case http.MethodHead, http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			if req.Method == http.MethodHead {
				return response(http.StatusNotFound, nil, http.Header{}), nil
			}
			body := []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return response(http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		h := http.Header{
			"Content-Length": {fmt.Sprint(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Last-Modified":  {time.Date(2023, 10, 25, 12, 0, 0, 0, time.UTC).Format(http.TimeFormat)},
			"Etag":           {`"etag"`},
		}
		if req.Method == http.MethodHead {
			r := response(http.StatusOK, nil, h)
			r.ContentLength = int64(len(obj.body))
			return r, nil
		}
		return response(http.StatusOK, obj.body, h), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
		return response(http.StatusOK, nil, http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return response(http.StatusNoContent, nil, http.Header{}), nil
	}
	return response(http.StatusNotImplemented, nil, http.Header{}), nil
}

func response(status int, body []byte, h http.Header) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func newFakeS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]fakeObject{}}
	client := s3.New(s3.Options{
		Region:                     "us-east-1",
		Credentials:                credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint:               aws.String("http://s3.test"),
		UsePathStyle:               true,
		HTTPClient:                 &http.Client{Transport: fake},
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
	return newS3Store(client, "condo-docs"), fake
}

func TestS3StoreFlow(t *testing.T) {
	s, fake := newFakeS3Store(t)
	ctx := context.Background()

	info, err := s.Put(ctx, "documents/prop-1/Acta.pdf", bytes.NewReader([]byte("hello")), "application/pdf")
	if err != nil {
		t.Fatal(err)
	}
	if info.Size != 5 || info.ContentType != "application/pdf" {
		t.Fatalf("info = %+v", info)
	}
	if string(fake.objects["documents/prop-1/Acta.pdf"].body) != "hello" {
		t.Fatalf("stored body = %q", fake.objects["documents/prop-1/Acta.pdf"].body)
	}
	if _, err := s.Put(ctx, "documents/prop-1/Acta.pdf", bytes.NewReader([]byte("again")), ""); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate put: %v", err)
	}

	_, rc, err := s.Open(ctx, "documents/prop-1/Acta.pdf")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "hello" {
		t.Fatalf("open body = %q", b)
	}

	list, err := s.List(ctx, "documents/")
	if err != nil || len(list) != 1 || list[0].Size != 5 {
		t.Fatalf("list = %+v, %v", list, err)
	}

	u, err := s.URL(ctx, "documents/prop-1/Acta.pdf", 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u, "/condo-docs/documents/prop-1/Acta.pdf") || !strings.Contains(u, "X-Amz-Expires=600") {
		t.Fatalf("presigned url = %q", u)
	}

	if ok, err := s.Delete(ctx, "documents/prop-1/Acta.pdf"); !ok || err != nil {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if ok, err := s.Delete(ctx, "documents/prop-1/Acta.pdf"); ok || err != nil {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
}

func TestS3StoreMissingObject(t *testing.T) {
	s, _ := newFakeS3Store(t)
	ctx := context.Background()
	if _, err := s.Head(ctx, "nope.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("head: %v", err)
	}
	if _, _, err := s.Open(ctx, "nope.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.URL(ctx, "../escape", 0); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("url with bad key: %v", err)
	}
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
