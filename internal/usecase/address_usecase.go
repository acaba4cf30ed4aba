package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop/internal/auth"
	"shop/internal/domain/model"
	"shop/internal/repository"
)

// 住所の入力（作成・更新共通）
type AddressInput struct {
	ReceiverName  string
	ReceiverPhone string
	Province      string
	City          string
	District      string
	Address       string
	PostalCode    string
	IsDefault     bool
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

var errAddressNotFound = NewHTTPError(http.StatusNotFound, "address not found")

func (u *AddressUsecase) List(ctx context.Context, ac auth.Context) ([]model.UserAddress, error) {
	userID, ok := ac.UserID()
	if !ok {
		return nil, errLoginRequired
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "list addresses", err)
	}
	return list, nil
}

func (u *AddressUsecase) Get(ctx context.Context, ac auth.Context, addressID int64) (model.UserAddress, error) {
	userID, ok := ac.UserID()
	if !ok {
		return model.UserAddress{}, errLoginRequired
	}
	a, err := u.addresses.FindByIDForUser(ctx, addressID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.UserAddress{}, errAddressNotFound
	}
	if err != nil {
		return model.UserAddress{}, internalError(ctx, "find address", err)
	}
	return a, nil
}

func (u *AddressUsecase) Create(ctx context.Context, ac auth.Context, in AddressInput) (model.UserAddress, error) {
	userID, ok := ac.UserID()
	if !ok {
		return model.UserAddress{}, errLoginRequired
	}
	in = trimAddress(in)
	if err := validateAddress(in); err != nil {
		return model.UserAddress{}, err
	}

	created, err := u.addresses.Create(ctx, toAddressModel(userID, in))
	if err != nil {
		return model.UserAddress{}, internalError(ctx, "create address", err)
	}
	return created, nil
}

func (u *AddressUsecase) Update(ctx context.Context, ac auth.Context, addressID int64, in AddressInput) (model.UserAddress, error) {
	userID, ok := ac.UserID()
	if !ok {
		return model.UserAddress{}, errLoginRequired
	}
	in = trimAddress(in)
	if err := validateAddress(in); err != nil {
		return model.UserAddress{}, err
	}

	a := toAddressModel(userID, in)
	a.ID = addressID
	err := u.addresses.Update(ctx, a)
	if errors.Is(err, repository.ErrNotFound) {
		return model.UserAddress{}, errAddressNotFound
	}
	if err != nil {
		return model.UserAddress{}, internalError(ctx, "update address", err)
	}
	return u.Get(ctx, ac, addressID)
}

func (u *AddressUsecase) Delete(ctx context.Context, ac auth.Context, addressID int64) error {
	userID, ok := ac.UserID()
	if !ok {
		return errLoginRequired
	}
	err := u.addresses.Delete(ctx, addressID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return errAddressNotFound
	}
	if err != nil {
		return internalError(ctx, "delete address", err)
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, ac auth.Context, addressID int64) error {
	userID, ok := ac.UserID()
	if !ok {
		return errLoginRequired
	}
	err := u.addresses.SetDefault(ctx, userID, addressID)
	if errors.Is(err, repository.ErrNotFound) {
		return errAddressNotFound
	}
	if err != nil {
		return internalError(ctx, "set default address", err)
	}
	return nil
}

func trimAddress(in AddressInput) AddressInput {
	in.ReceiverName = strings.TrimSpace(in.ReceiverName)
	in.ReceiverPhone = strings.TrimSpace(in.ReceiverPhone)
	in.Province = strings.TrimSpace(in.Province)
	in.City = strings.TrimSpace(in.City)
	in.District = strings.TrimSpace(in.District)
	in.Address = strings.TrimSpace(in.Address)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	return in
}

func validateAddress(in AddressInput) error {
	switch {
	case in.ReceiverName == "":
		return NewHTTPError(http.StatusBadRequest, "receiver_name is required")
	case in.ReceiverPhone == "":
		return NewHTTPError(http.StatusBadRequest, "receiver_phone is required")
	case in.Province == "":
		return NewHTTPError(http.StatusBadRequest, "province is required")
	case in.City == "":
		return NewHTTPError(http.StatusBadRequest, "city is required")
	case in.Address == "":
		return NewHTTPError(http.StatusBadRequest, "address is required")
	}
	return nil
}

func toAddressModel(userID int64, in AddressInput) model.UserAddress {
	return model.UserAddress{
		UserID:        userID,
		ReceiverName:  in.ReceiverName,
		ReceiverPhone: in.ReceiverPhone,
		Province:      in.Province,
		City:          in.City,
		District:      in.District,
		Address:       in.Address,
		PostalCode:    in.PostalCode,
		IsDefault:     in.IsDefault,
	}
}
