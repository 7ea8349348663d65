package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/document --output domain/document --outpkg documentmock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Writer --dir ../domain/document --output domain/document --outpkg documentmock --filename writer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PointsProvider --dir ../usecase --output usecase --outpkg usecasemock --filename points_provider_mock.go
