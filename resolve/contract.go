package resolve

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jmolinera/go-session-center/registry/contracts"
	"github.com/jmolinera/go-session-center/registry/products"
	"github.com/jmolinera/go-session-center/registry/roles"
	"github.com/jmolinera/go-session-center/sessions"
)

// ContractResolver fetches a customer's active contract memberships and
// enriches each with contract, role, scope and product detail.
type ContractResolver struct {
	contracts contracts.Registry
	roles     roles.Registry
	products  products.Registry
	logger    zerolog.Logger
}

// NewContractResolver builds a resolver over the contract, role and product
// registries.
func NewContractResolver(
	contractRegistry contracts.Registry,
	roleRegistry roles.Registry,
	productCatalog products.Registry,
	logger zerolog.Logger,
) *ContractResolver {
	return &ContractResolver{
		contracts: contractRegistry,
		roles:     roleRegistry,
		products:  productCatalog,
		logger:    logger,
	}
}

// Resolve lists the party's active memberships and enriches them
// concurrently. A membership-listing failure degrades to an empty contract
// list; any terminal enrichment failure fails the whole call, so a partial
// contract list is never returned.
func (r *ContractResolver) Resolve(ctx context.Context, partyID uuid.UUID) ([]sessions.ContractInfo, error) {
	memberships, err := r.contracts.ListActiveMemberships(ctx, partyID)
	if err != nil {
		r.logger.Warn().Err(err).Str("partyId", partyID.String()).Msg("membership listing failed, treating as no contracts")
		return []sessions.ContractInfo{}, nil
	}
	if len(memberships) == 0 {
		return []sessions.ContractInfo{}, nil
	}

	results := make([]sessions.ContractInfo, len(memberships))
	g, gctx := errgroup.WithContext(ctx)
	for i, membership := range memberships {
		g.Go(func() error {
			info, err := r.enrich(gctx, membership)
			if err != nil {
				return err
			}
			results[i] = *info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(err, "[ContractResolver.Resolve] enrichment")
	}
	return results, nil
}

// enrich builds one ContractInfo: contract detail first, then role, scopes
// and product detail concurrently. Only the scope fetch may degrade (to an
// empty list); every other failure is terminal for the whole resolve.
func (r *ContractResolver) enrich(ctx context.Context, membership contracts.Membership) (*sessions.ContractInfo, error) {
	contract, err := r.contracts.GetContract(ctx, membership.ContractID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[ContractResolver.enrich] contract detail")
	}

	var (
		role         *roles.Role
		scopes       []roles.Scope
		scopesFailed bool
		product      *products.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := r.roles.GetRole(gctx, membership.RoleID)
		if err != nil {
			return pkgerrors.Wrap(err, "[ContractResolver.enrich] role detail")
		}
		role = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := r.roles.ListActiveScopes(gctx, membership.RoleID)
		if err != nil {
			r.logger.Warn().Err(err).Str("roleId", membership.RoleID.String()).Msg("scope fetch failed, continuing with empty scopes")
			scopesFailed = true
			return nil
		}
		scopes = fetched
		return nil
	})
	if contract.ProductID != nil {
		g.Go(func() error {
			fetched, err := r.products.GetProduct(gctx, *contract.ProductID)
			if err != nil {
				return pkgerrors.Wrap(err, "[ContractResolver.enrich] product detail")
			}
			product = fetched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roleInfo := sessions.RoleInfo{
		RoleID:      role.RoleID,
		RoleCode:    role.RoleCode,
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		Scopes:      make([]sessions.RoleScopeInfo, 0, len(scopes)),
	}
	if !scopesFailed {
		for _, scope := range scopes {
			roleInfo.Scopes = append(roleInfo.Scopes, sessions.RoleScopeInfo{
				ScopeID:      scope.ScopeID,
				RoleID:       scope.RoleID,
				ScopeCode:    scope.ScopeCode,
				ScopeName:    scope.ScopeName,
				Description:  scope.Description,
				ActionType:   scope.ActionType,
				ResourceType: scope.ResourceType,
				IsActive:     scope.IsActive,
			})
		}
	}

	info := &sessions.ContractInfo{
		ContractID:     contract.ContractID,
		ContractNumber: contract.ContractNumber,
		ContractStatus: contract.Status,
		StartDate:      contract.StartDate,
		EndDate:        contract.EndDate,
		RoleInContract: roleInfo,
		IsActive:       membership.IsActive && contract.IsActive(),
	}
	if product != nil {
		info.Product = &sessions.ProductInfo{
			ProductID:   product.ProductID,
			SubtypeID:   product.SubtypeID,
			Name:        product.Name,
			Code:        product.Code,
			Description: product.Description,
			Type:        product.Type,
			Status:      product.Status,
			LaunchDate:  product.LaunchDate,
			EndDate:     product.EndDate,
		}
	}
	return info, nil
}
