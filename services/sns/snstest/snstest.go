package snstest

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

const (
	xmlns = "http://sns.amazonaws.com/doc/2010-03-31/"
	// AccountID is used to build the topic ARNs handed back by the server.
	AccountID = "123456789012"
)

// Server is a fake SNS endpoint speaking the query protocol for the
// CreateTopic and Publish actions.
type Server struct {
	mu       sync.Mutex
	ts       *httptest.Server
	URL      string
	Region   string
	requests []Request
	failures map[string]Failure
	nextID   int
	closed   bool
}

type Request struct {
	Action string
	// Name is set for CreateTopic.
	Name string
	// Publish parameters.
	Message           string
	TopicArn          string
	PhoneNumber       string
	MessageAttributes map[string]MessageAttribute
}

type MessageAttribute struct {
	DataType    string
	StringValue string
}

// Failure is an error response returned for an action.
type Failure struct {
	Status  int
	Code    string
	Message string
}

func NewServer() *Server {
	s := &Server{
		Region:   "us-east-1",
		failures: make(map[string]Failure),
	}
	s.ts = httptest.NewServer(http.HandlerFunc(s.handle))
	s.URL = s.ts.URL
	return s
}

// Fail makes every subsequent request for action return f.
func (s *Server) Fail(action string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Status == 0 {
		f.Status = http.StatusBadRequest
	}
	s.failures[action] = f
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := make([]Request, len(s.requests))
	copy(reqs, s.requests)
	return reqs
}

func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.ts.Close()
}

// TopicARN returns the ARN the server assigns to a topic name.
func (s *Server) TopicARN(name string) string {
	return fmt.Sprintf("arn:aws:sns:%s:%s:%s", s.Region, AccountID, name)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, Failure{Status: http.StatusBadRequest, Code: "MalformedQueryString", Message: err.Error()})
		return
	}
	req := Request{Action: r.PostForm.Get("Action")}

	switch req.Action {
	case "CreateTopic":
		req.Name = r.PostForm.Get("Name")
	case "Publish":
		req.Message = r.PostForm.Get("Message")
		req.TopicArn = r.PostForm.Get("TopicArn")
		req.PhoneNumber = r.PostForm.Get("PhoneNumber")
		req.MessageAttributes = parseMessageAttributes(r)
	default:
		writeError(w, Failure{Status: http.StatusBadRequest, Code: "InvalidAction", Message: "unsupported action " + req.Action})
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	f, fail := s.failures[req.Action]
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	if fail {
		writeError(w, f)
		return
	}

	requestID := "req-" + strconv.Itoa(id)
	switch req.Action {
	case "CreateTopic":
		writeXML(w, http.StatusOK, createTopicResponse{
			Xmlns:     xmlns,
			TopicArn:  s.TopicARN(req.Name),
			RequestID: requestID,
		})
	case "Publish":
		writeXML(w, http.StatusOK, publishResponse{
			Xmlns:     xmlns,
			MessageID: "msg-" + strconv.Itoa(id),
			RequestID: requestID,
		})
	}
}

func parseMessageAttributes(r *http.Request) map[string]MessageAttribute {
	attrs := make(map[string]MessageAttribute)
	for i := 1; ; i++ {
		prefix := "MessageAttributes.entry." + strconv.Itoa(i)
		name := r.PostForm.Get(prefix + ".Name")
		if name == "" {
			break
		}
		attrs[name] = MessageAttribute{
			DataType:    r.PostForm.Get(prefix + ".Value.DataType"),
			StringValue: r.PostForm.Get(prefix + ".Value.StringValue"),
		}
	}
	return attrs
}

type createTopicResponse struct {
	XMLName   xml.Name `xml:"CreateTopicResponse"`
	Xmlns     string   `xml:"xmlns,attr"`
	TopicArn  string   `xml:"CreateTopicResult>TopicArn"`
	RequestID string   `xml:"ResponseMetadata>RequestId"`
}

type publishResponse struct {
	XMLName   xml.Name `xml:"PublishResponse"`
	Xmlns     string   `xml:"xmlns,attr"`
	MessageID string   `xml:"PublishResult>MessageId"`
	RequestID string   `xml:"ResponseMetadata>RequestId"`
}

type errorResponse struct {
	XMLName   xml.Name `xml:"ErrorResponse"`
	Xmlns     string   `xml:"xmlns,attr"`
	Type      string   `xml:"Error>Type"`
	Code      string   `xml:"Error>Code"`
	Message   string   `xml:"Error>Message"`
	RequestID string   `xml:"RequestId"`
}

func writeError(w http.ResponseWriter, f Failure) {
	writeXML(w, f.Status, errorResponse{
		Xmlns:     xmlns,
		Type:      "Sender",
		Code:      f.Code,
		Message:   f.Message,
		RequestID: "req-error",
	})
}

func writeXML(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(v)
}
