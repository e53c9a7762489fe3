// Package mail entrega el reporte diario por SMTP (gomail) con reintentos acotados.
package mail

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/gomail.v2"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/pkg/config"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

var _ appreport.Notifier = (*SMTPNotifier)(nil)

const maxBackoff = time.Minute

// Sender lo que el notificador necesita de gomail; *gomail.Dialer lo cumple.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier implementa report.Notifier.
type SMTPNotifier struct {
	sender Sender
	cfg    config.MailConfig
	log    *logger.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// NewSMTPNotifier construye el notificador sobre un gomail.Dialer.
func NewSMTPNotifier(cfg config.MailConfig, log *logger.Logger) *SMTPNotifier {
	return NewSMTPNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg, log)
}

// NewSMTPNotifierWithSender permite inyectar el transporte (tests).
func NewSMTPNotifierWithSender(sender Sender, cfg config.MailConfig, log *logger.Logger) *SMTPNotifier {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 20 * time.Second
	}
	return &SMTPNotifier{sender: sender, cfg: cfg, log: log, wait: sleepCtx}
}

// Dispatch envía el PDF adjunto con un resumen en texto plano.
// Agota MaxAttempts con backoff exponencial; el error final envuelve domain.ErrDelivery.
//
// Nunca hay dos envíos SMTP simultáneos: si un intento vence el plazo, el
// siguiente espera el resultado del envío en curso y, si ese terminó bien, no
// reenvía. Un último intento vencido puede igual entregarse después de
// devolver el error (entrega al-menos-una-vez).
func (n *SMTPNotifier) Dispatch(ctx context.Context, doc []byte, shiftDate time.Time, rep *entity.CompiledReport) error {
	if len(n.cfg.Recipients) == 0 {
		return fmt.Errorf("%w: sin destinatarios configurados", domain.ErrDelivery)
	}
	date := shiftDate.Format(entity.DateLayout)
	msg := n.buildMessage(doc, date, rep)

	var (
		lastErr  error
		inflight <-chan error // envío vencido que aún no retornó
	)
	for attempt := 1; attempt <= n.cfg.MaxAttempts; attempt++ {
		if inflight != nil {
			select {
			case err := <-inflight:
				inflight = nil
				if err == nil {
					n.log.Info().Str("date", date).Int("attempt", attempt-1).
						Msg("envío vencido completado, no se reintenta")
					return nil
				}
				lastErr = err
			case <-ctx.Done():
				return fmt.Errorf("%w: correo del reporte %s: %w", domain.ErrDelivery, date, ctx.Err())
			}
		}

		inflight, lastErr = n.attempt(ctx, msg)
		if lastErr == nil {
			n.log.Info().Str("date", date).Int("attempt", attempt).
				Strs("recipients", n.cfg.Recipients).Msg("reporte diario enviado por correo")
			return nil
		}
		n.log.Warn().Err(lastErr).Str("date", date).Int("attempt", attempt).
			Int("max_attempts", n.cfg.MaxAttempts).Msg("intento de envío SMTP fallido")

		if attempt == n.cfg.MaxAttempts {
			break
		}
		if err := n.wait(ctx, backoff(attempt, n.cfg.BaseBackoff)); err != nil {
			lastErr = err
			break
		}
	}
	return fmt.Errorf("%w: correo del reporte %s: %w", domain.ErrDelivery, date, lastErr)
}

// attempt un intento limitado por AttemptTimeout. gomail no recibe contexto:
// si vence el plazo se devuelve el canal del envío, que sigue en curso.
func (n *SMTPNotifier) attempt(ctx context.Context, msg *gomail.Message) (<-chan error, error) {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.AttemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(msg) }()

	select {
	case err := <-done:
		return nil, err
	case <-ctx.Done():
		return done, ctx.Err()
	}
}

func (n *SMTPNotifier) buildMessage(doc []byte, date string, rep *entity.CompiledReport) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.Recipients...)
	m.SetHeader("Subject", Subject(date, rep))
	m.SetBody("text/plain", Summary(date, rep))
	m.Attach(appreport.ReportFilename(date),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(doc)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return m
}

// backoff base * 2^(attempt-1), con tope.
func backoff(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
