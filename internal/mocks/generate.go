package mocks

//go:generate mockery --name EventStore --srcpkg github.com/pulse-lab/pulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name ContentStore --srcpkg github.com/pulse-lab/pulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
