package dataapi

import (
	"context"
	"net/http"
)

type remoteClient struct {
	backend Backend
}

func (c *remoteClient) Get(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *remoteClient) Post(ctx context.Context, path string, body any) (Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *remoteClient) Put(ctx context.Context, path string, body any) (Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *remoteClient) Delete(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *remoteClient) do(ctx context.Context, method, path string, body any) (Response, error) {
	data, err := c.backend.Do(ctx, method, path, body)
	if err != nil {
		return Response{}, err
	}
	return Response{Data: data}, nil
}
