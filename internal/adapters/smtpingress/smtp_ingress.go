package smtpingress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// Ingress runs an SMTP listener that feeds incoming messages through the
// gateway pipeline. Clean mail is stamped with analysis headers and relayed
// upstream; spam is either stamped or rejected depending on configuration.
type Ingress struct {
	gateway          *core.GatewayService
	logger           *zap.Logger
	server           *smtp.Server
	listenAddr       string
	relayAddr        string
	blockSpam        bool
	spamHeader       string
	confidenceHeader string
	pathHeader       string
}

// NewIngress creates an SMTP ingress in front of the gateway service
func NewIngress(
	gateway *core.GatewayService,
	logger *zap.Logger,
	listenAddr string,
	relayAddr string,
	blockSpam bool,
	spamHeader string,
	confidenceHeader string,
	pathHeader string,
) *Ingress {
	return &Ingress{
		gateway:          gateway,
		logger:           logger,
		listenAddr:       listenAddr,
		relayAddr:        relayAddr,
		blockSpam:        blockSpam,
		spamHeader:       spamHeader,
		confidenceHeader: confidenceHeader,
		pathHeader:       pathHeader,
	}
}

// Start begins listening for SMTP connections
func (in *Ingress) Start() error {
	in.server = smtp.NewServer(&backend{ingress: in})
	in.server.Addr = in.listenAddr
	in.server.Domain = "localhost"
	in.server.ReadTimeout = 30 * time.Second
	in.server.WriteTimeout = 30 * time.Second
	in.server.MaxMessageBytes = 30 * 1024 * 1024
	in.server.MaxRecipients = 50
	in.server.AllowInsecureAuth = true

	in.logger.Info("SMTP ingress starting", zap.String("address", in.listenAddr))

	go func() {
		if err := in.server.ListenAndServe(); err != nil && err != smtp.ErrServerClosed {
			in.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the SMTP listener down
func (in *Ingress) Stop() error {
	if in.server != nil {
		return in.server.Close()
	}
	return nil
}

// relay forwards the stamped message to the upstream MTA
func (in *Ingress) relay(sender string, recipients []string, data []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", in.relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			in.logger.Warn("RCPT TO failed",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			accepted = true
		}
	}
	if !accepted {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		in.logger.Warn("QUIT failed", zap.Error(err))
	}
	return nil
}

type backend struct {
	ingress *Ingress
}

func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{
		ingress:    b.ingress,
		recipients: make([]string, 0),
	}, nil
}

type session struct {
	ingress    *Ingress
	sender     string
	recipients []string
}

func (s *session) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

func (s *session) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data runs the message through the gateway and stamps or rejects it
func (s *session) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.ingress.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.ingress.logger.Error("Failed to parse message", zap.Error(err))
		return err
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		s.ingress.logger.Error("Failed to read message body", zap.Error(err))
		return err
	}

	email := &core.EmailInput{
		Subject: msg.Header.Get("Subject"),
		Content: string(body),
		Sender:  s.sender,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := s.ingress.gateway.AnalyzeEmail(ctx, email)
	if err != nil {
		// Analysis failures never block mail. Stamp nothing and pass through.
		s.ingress.logger.Error("Analysis failed, passing message unmodified",
			zap.Error(err),
			zap.String("sender", s.sender))
		return s.forward(rawData)
	}

	if result.IsSpam && s.ingress.blockSpam {
		s.ingress.logger.Info("Rejecting spam message",
			zap.String("sender", s.sender),
			zap.Float64("confidence", result.Confidence))
		return fmt.Errorf("550 Rejected as spam (confidence: %.2f)", result.Confidence)
	}

	var stamped bytes.Buffer
	fmt.Fprintf(&stamped, "%s: %t\r\n", s.ingress.spamHeader, result.IsSpam)
	fmt.Fprintf(&stamped, "%s: %.4f\r\n", s.ingress.confidenceHeader, result.Confidence)
	fmt.Fprintf(&stamped, "%s: %s\r\n", s.ingress.pathHeader, result.ProcessingPath)
	for key, values := range msg.Header {
		for _, value := range values {
			fmt.Fprintf(&stamped, "%s: %s\r\n", key, value)
		}
	}
	fmt.Fprintf(&stamped, "\r\n")
	stamped.Write(body)

	s.ingress.logger.Info("Processed message",
		zap.String("sender", s.sender),
		zap.Bool("is_spam", result.IsSpam),
		zap.Float64("confidence", result.Confidence))

	return s.forward(stamped.Bytes())
}

func (s *session) forward(data []byte) error {
	if s.ingress.relayAddr == "" {
		s.ingress.logger.Warn("No relay configured, message accepted but not forwarded")
		return nil
	}
	if err := s.ingress.relay(s.sender, s.recipients, data); err != nil {
		s.ingress.logger.Error("Failed to relay message",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}
	return nil
}

func (s *session) Logout() error {
	return nil
}
