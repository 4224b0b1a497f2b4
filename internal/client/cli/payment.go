package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/deckexc/internal/client/api"
	"github.com/dmitrijs2005/deckexc/internal/common"
)

func (a *App) printPayment(p *api.Payment) {
	if p.CardNumber != "" {
		fmt.Fprintf(a.out, "  card:       %s\n", p.CardNumber)
	}
	if p.CVC != "" {
		fmt.Fprintf(a.out, "  cvc:        %s\n", p.CVC)
	}
	if p.ExpirationDate != "" {
		fmt.Fprintf(a.out, "  expiration: %s\n", p.ExpirationDate)
	}
}

func (a *App) ShowCard(ctx context.Context) error {
	p, err := a.api.GetPayment(ctx, a.session.UserID)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, "Stored card:")
	a.printPayment(p)
	return nil
}

func (a *App) AddCard(ctx context.Context) error {
	card, err := getSimpleText(a.reader, "Card number (16 digits)", a.out)
	if err != nil {
		return err
	}
	cvc, err := getSecret(a.reader, "CVC", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(cvc)
	exp, err := getSimpleText(a.reader, "Expiration date (YYYY/MM)", a.out)
	if err != nil {
		return err
	}

	p, err := a.api.CreatePayment(ctx, api.CreatePaymentRequest{
		UserID:         a.session.UserID,
		CardNumber:     card,
		CVC:            string(cvc),
		ExpirationDate: exp,
	})
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, "Card saved:")
	a.printPayment(p)
	return nil
}

// UpdateCard asks for each field; an empty answer keeps the stored value.
func (a *App) UpdateCard(ctx context.Context) error {
	req := api.UpdatePaymentRequest{UserID: a.session.UserID}

	card, err := getSimpleText(a.reader, "New card number (empty to keep)", a.out)
	if err != nil {
		return err
	}
	cvc, err := getSecret(a.reader, "New CVC (empty to keep)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(cvc)
	exp, err := getSimpleText(a.reader, "New expiration date YYYY/MM (empty to keep)", a.out)
	if err != nil {
		return err
	}

	if card != "" {
		req.CardNumber = &card
	}
	if len(cvc) > 0 {
		s := string(cvc)
		req.CVC = &s
	}
	if exp != "" {
		req.ExpirationDate = &exp
	}
	if req.CardNumber == nil && req.CVC == nil && req.ExpirationDate == nil {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	p, err := a.api.UpdatePayment(ctx, req)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, "Card updated:")
	a.printPayment(p)
	return nil
}

func (a *App) RemoveCard(ctx context.Context) error {
	ok, err := GetConfirmation(a.reader, "Remove the stored card?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.api.DeletePayment(ctx, a.session.UserID); err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, "Card removed")
	return nil
}
